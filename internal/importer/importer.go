// Package importer runs the instructor side of the pipeline: acquire the
// material text, assemble a study pack, keep both locally and submit the
// pack for review.
package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studypack/internal/backend"
	"github.com/abhisek/studypack/internal/store"
	"github.com/abhisek/studypack/internal/studypack"
	"github.com/abhisek/studypack/internal/transcript"
)

// Assembler builds a study pack for a material.
type Assembler interface {
	Assemble(ctx context.Context, m studypack.Material, notes string, progress studypack.ProgressFunc) (*studypack.StudyPack, error)
}

// Uploader submits a pack to the backend as a review draft.
type Uploader interface {
	UploadDraft(ctx context.Context, req backend.UploadRequest) (*backend.ReviewDraft, error)
}

// Request describes one material to import.
type Request struct {
	Source   transcript.Source
	Title    string
	Notes    string
	ModuleID string
	CourseID string
}

// Result is what an import produced.
type Result struct {
	Material studypack.Material
	Pack     *studypack.StudyPack

	// Uploaded is set once the pack was sent as a review draft. UploadErr
	// is set when the upload was attempted and failed; the pack is still
	// stored locally.
	Uploaded  bool
	UploadErr error
}

// Importer wires acquisition, assembly, local storage and upload.
type Importer struct {
	acquirer  *transcript.Acquirer
	assembler Assembler
	store     *store.Store
	uploader  Uploader
	logger    *zap.Logger
	now       func() time.Time
}

// New creates an Importer. uploader may be nil to keep packs local.
func New(acq *transcript.Acquirer, asm Assembler, st *store.Store, uploader Uploader, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		acquirer:  acq,
		assembler: asm,
		store:     st,
		uploader:  uploader,
		logger:    logger.Named("importer"),
		now:       time.Now,
	}
}

// Import runs the pipeline for req. It fails only when the material or
// pack cannot be stored or the pack cannot be assembled; upload problems
// are reported in the Result.
func (i *Importer) Import(ctx context.Context, req Request, progress studypack.ProgressFunc) (*Result, error) {
	m := studypack.Material{
		ID:        studypack.NewID(),
		Title:     Title(req),
		Type:      materialType(req.Source.Kind),
		SourceURL: req.Source.URL,
		Content:   i.acquirer.Acquire(ctx, req.Source),
		Status:    studypack.StatusPending,
		CreatedAt: i.now().UTC(),
		ModuleID:  req.ModuleID,
		CourseID:  req.CourseID,
	}
	log := i.logger.With(zap.String("material_id", m.ID))

	materials := i.store.Materials()
	if err := materials.Save(ctx, studypack.MaterialRecord(m)); err != nil {
		return nil, fmt.Errorf("save material: %w", err)
	}

	pack, err := i.assembler.Assemble(ctx, m, req.Notes, progress)
	if err != nil {
		// ctx may be the reason; record the failure regardless
		if serr := materials.SetStatus(context.WithoutCancel(ctx), m.ID, string(studypack.StatusFailed)); serr != nil {
			log.Warn("failed to mark material failed", zap.Error(serr))
		}
		return nil, err
	}

	rec, err := studypack.PackRecord(pack, studypack.ReviewPending, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := i.store.Packs().Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save study pack: %w", err)
	}
	if err := materials.SetStatus(ctx, m.ID, string(studypack.StatusReady)); err != nil {
		return nil, fmt.Errorf("update material status: %w", err)
	}
	m.Status = studypack.StatusReady

	res := &Result{Material: m, Pack: pack}
	if i.uploader == nil {
		return res, nil
	}
	if _, err := i.uploader.UploadDraft(ctx, backend.UploadRequest{Material: m, Pack: *pack}); err != nil {
		log.Warn("upload failed, pack kept locally", zap.Error(err))
		res.UploadErr = err
		return res, nil
	}
	res.Uploaded = true
	log.Info("draft uploaded for review", zap.String("pack_id", pack.ID))
	return res, nil
}

// Title returns req.Title, or a name derived from the source.
func Title(req Request) string {
	if t := strings.TrimSpace(req.Title); t != "" {
		return t
	}
	switch req.Source.Kind {
	case transcript.KindDocument:
		return filepath.Base(req.Source.Path)
	case transcript.KindYouTube:
		return req.Source.URL
	}
	return "Untitled material"
}

func materialType(k transcript.Kind) studypack.MaterialType {
	if k == transcript.KindYouTube {
		return studypack.MaterialVideo
	}
	return studypack.MaterialDocument
}

package backend

import "net/http"

// RequestDecorator mutates an outgoing request before it is sent.
type RequestDecorator func(*http.Request)

// WithBearer attaches the session's access token, if any.
func WithBearer(s *Session) RequestDecorator {
	return func(r *http.Request) {
		if tok := s.AccessToken(); tok != "" {
			r.Header.Set("Authorization", "Bearer "+tok)
		}
	}
}

// WithOrg attaches the session's active organization, if any.
func WithOrg(s *Session) RequestDecorator {
	return func(r *http.Request) {
		if org := s.OrgID(); org != "" {
			r.Header.Set("X-Org-ID", org)
		}
	}
}

// WithHeader sets a fixed header.
func WithHeader(key, value string) RequestDecorator {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Chain combines decorators, applied in order.
func Chain(decorators ...RequestDecorator) RequestDecorator {
	return func(r *http.Request) {
		for _, d := range decorators {
			if d != nil {
				d(r)
			}
		}
	}
}

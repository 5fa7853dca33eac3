package routetree

import (
	"errors"
	"net/url"
)

// ResolveRedirect interpolates the matched route's redirect template and
// returns the target location. Capture names in the template are filled
// from the match's parameter bag (path captures and query values alike).
// Query keys the template did not consume are re-appended to the target in
// sorted order; consumed keys are dropped.
//
// A template name with no value in the bag is an UnresolvedParamError.
// The caller resolves the returned target as a fresh location.
func (m *Match) ResolveRedirect() (string, error) {
	if m.Route == nil || m.Route.redirect == nil {
		return "", errors.New("routetree: match is not a redirect")
	}

	tpl := m.Route.redirect
	target, err := tpl.Fill(m.Params)
	if err != nil {
		var missing *MissingParamError
		if errors.As(err, &missing) {
			return "", &UnresolvedParamError{
				Route:    m.Route.Name(),
				Template: tpl.String(),
				Param:    missing.Param,
			}
		}
		return "", err
	}

	if m.Query != "" {
		consumed := make(map[string]bool, len(tpl.names))
		for _, name := range tpl.names {
			consumed[name] = true
		}
		residual, _ := url.ParseQuery(m.Query)
		for key := range residual {
			if consumed[key] {
				delete(residual, key)
			}
		}
		if enc := residual.Encode(); enc != "" {
			target += "?" + enc
		}
	}

	return target, nil
}

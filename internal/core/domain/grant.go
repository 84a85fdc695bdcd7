package domain

// TokenValue is the nested access_token shape used inside grant continuations.
type TokenValue struct {
	Value string `json:"value"`
}

// GrantAccessToken is the bearer token carried by a finalized grant.
type GrantAccessToken struct {
	Value     string `json:"value"`
	Manage    string `json:"manage,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

// GrantContinuation is the handle used to poll a pending grant: a short-lived
// continuation token distinct from the eventual access token, the URI to poll,
// and the server's pacing hint in seconds.
type GrantContinuation struct {
	AccessToken TokenValue `json:"access_token"`
	URI         string     `json:"uri"`
	Wait        int        `json:"wait,omitempty"`
}

// GrantInteraction holds the redirect the end user must visit and the finish
// token echoed back on continuation.
type GrantInteraction struct {
	Redirect string `json:"redirect,omitempty"`
	Finish   string `json:"finish,omitempty"`
}

// Grant is a tagged union over the two grant states. A finalized grant carries
// AccessToken; a pending one carries Continue (and usually Interact). Only
// outgoing-payment grants are ever pending in this system.
type Grant struct {
	AccessToken *GrantAccessToken  `json:"access_token,omitempty"`
	Continue    *GrantContinuation `json:"continue,omitempty"`
	Interact    *GrantInteraction  `json:"interact,omitempty"`
}

// Finalized reports whether the grant carries a usable access token.
func (g *Grant) Finalized() bool {
	return g != nil && g.AccessToken != nil && g.AccessToken.Value != ""
}

// InteractionURL returns the redirect URL the end user must visit, or "".
func (g *Grant) InteractionURL() string {
	if g == nil || g.Interact == nil {
		return ""
	}
	return g.Interact.Redirect
}

// RequiresInteraction reports whether the grant was issued with an
// interactive-authorization clause.
func (g *Grant) RequiresInteraction() bool {
	return g != nil && g.Interact != nil && g.Interact.Redirect != ""
}

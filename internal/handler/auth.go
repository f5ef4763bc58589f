package handler

import (
	"net/http" // HTTP status codes and cookie primitives
	"strings"  // string trimming for input normalization
	"time"     // cookie expiry times

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/family-travel-blog/internal/config"     // app configuration
	"github.com/iliyamo/family-travel-blog/internal/credstore"  // static credential store
	"github.com/iliyamo/family-travel-blog/internal/middleware" // context keys and cookie name
	"github.com/iliyamo/family-travel-blog/internal/utils"      // session token issuing
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *credstore.Store
}

func NewAuthHandler(cfg config.Config, users *credstore.Store) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type loginReq struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type userPart struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
}

type loginResp struct {
	Success   bool      `json:"success"`
	User      userPart  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login verifies credentials against the static store and issues a
// session cookie. Sessions are stateless: the signed token is the only
// session state, so login has no side effects beyond Set-Cookie.
//
// Failure behavior is deliberate: unknown username and wrong password
// produce byte-identical 401 responses, and the credential store runs
// a bcrypt compare in both cases so timing does not differ either.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, ErrInvalidInput, "username/password required")
	}

	u, ok := h.Users.Authenticate(req.Username, req.Password)
	if !ok {
		return fail(c, http.StatusUnauthorized, ErrInvalidCredentials, invalidCredentialsMessage)
	}

	// rememberMe picks the 7-day lifetime, otherwise 24h. The cookie
	// Max-Age uses the exact same number of seconds as the token exp,
	// so the two expire together.
	ttl := utils.SessionTTLSeconds
	if req.RememberMe {
		ttl = utils.SessionTTLLongSeconds
	}
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.Username, u.Role, ttl)
	if err != nil {
		return serverError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tok.Token,
		Path:     "/",
		MaxAge:   ttl,
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	return c.JSON(http.StatusOK, loginResp{
		Success:   true,
		User:      userPart{Username: u.Username, Role: u.Role, DisplayName: u.DisplayName},
		ExpiresAt: tok.Exp,
	})
}

// Logout clears the session cookie. Tokens cannot be revoked server
// side (there is no session table), so logout is purely a client-side
// destruction of the cookie; an already-captured token stays valid
// until it expires. That is an accepted property of the stateless
// design, not an oversight.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Me: simple protected endpoint echoing the verified identity.
func (h *AuthHandler) Me(c echo.Context) error {
	username, _ := c.Get(middleware.CtxUsername).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	resp := echo.Map{"success": true, "username": username, "role": role}
	if u, ok := h.Users.Lookup(username); ok && u.DisplayName != "" {
		resp["displayName"] = u.DisplayName
	}
	return c.JSON(http.StatusOK, resp)
}

package server

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/mmml-co/mmml-backend/internal/auth/domain"
	authoauth "github.com/mmml-co/mmml-backend/internal/auth/oauth"
	"go.uber.org/zap"
)

const (
	oauthStateCookie     = "oauth_state"
	oauthVerifierCookie  = "oauth_code_verifier"
	oauthRedirectCookie  = "oauth_redirect_to"
	oauthStateTTL        = 10 * time.Minute
	oauthErrorRedirectTo = "/login?error=oauth_login"
)

// OAuthLogin serves both legs of the authorization-code flow: without a code
// it redirects to the provider, with a code it completes the callback.
func (s *Server) OAuthLogin(c *gin.Context) {
	if strings.TrimSpace(c.Query("error")) != "" {
		s.log.Warn("oauth provider returned error",
			zap.String("provider", s.oauthsvc.ProviderName()),
			zap.String("error", c.Query("error")),
		)
		s.clearOAuthCookies(c)
		c.Redirect(http.StatusFound, oauthErrorRedirectTo)
		return
	}

	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		if err := s.startOAuthLogin(c); err != nil {
			s.failOAuth(c, err)
		}
		return
	}

	if err := s.handleOAuthCallback(c, code); err != nil {
		s.failOAuth(c, err)
	}
}

func (s *Server) startOAuthLogin(c *gin.Context) error {
	result, err := s.oauthsvc.RedirectURL(c.Request.Context(), authoauth.RedirectRequest{
		RedirectURI: s.oauthRedirectURI(c),
	})
	if err != nil {
		return err
	}

	s.setOAuthCookie(c, oauthStateCookie, result.State)
	if strings.TrimSpace(result.CodeVerifier) != "" {
		s.setOAuthCookie(c, oauthVerifierCookie, result.CodeVerifier)
	}

	if target := sanitizeRedirectPath(c.Query("redirect_to")); target != "" {
		s.setOAuthCookie(c, oauthRedirectCookie, target)
	}

	c.Redirect(http.StatusFound, result.URL)
	return nil
}

func (s *Server) handleOAuthCallback(c *gin.Context, code string) error {
	state := strings.TrimSpace(c.Query("state"))
	storedState, err := c.Cookie(oauthStateCookie)
	if err != nil || storedState == "" || state == "" ||
		subtle.ConstantTimeCompare([]byte(state), []byte(storedState)) != 1 {
		s.clearOAuthCookies(c)
		return ErrUnauthorized
	}

	verifier, _ := c.Cookie(oauthVerifierCookie)
	redirectTarget, _ := c.Cookie(oauthRedirectCookie)
	s.clearOAuthCookies(c)

	identity, err := s.oauthsvc.Login(c.Request.Context(), authoauth.LoginRequest{
		Code:         code,
		RedirectURI:  s.oauthRedirectURI(c),
		CodeVerifier: verifier,
	})
	if err != nil {
		return err
	}

	result, err := s.authsvc.LoginWithIdentity(c.Request.Context(), authdomain.IdentityLoginRequest{
		Provider:    s.oauthsvc.ProviderName(),
		ExternalID:  identity.ExternalID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AllowSignUp: s.oauthsvc.AllowSignUp(),
		UserAgent:   c.Request.UserAgent(),
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		return err
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	redirectTarget = sanitizeRedirectPath(redirectTarget)
	if redirectTarget == "" {
		redirectTarget = "/"
	}
	c.Redirect(http.StatusFound, redirectTarget)
	return nil
}

func (s *Server) oauthRedirectURI(c *gin.Context) string {
	if configured := strings.TrimSpace(s.cfg.OAuth.RedirectURL); configured != "" {
		return configured
	}

	scheme := "http"
	if c.Request.TLS != nil || s.cfg.AuthCookieSecure {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/auth/oauth"
}

func (s *Server) failOAuth(c *gin.Context, err error) {
	s.log.Warn("oauth login failed",
		zap.String("provider", s.oauthsvc.ProviderName()),
		zap.Error(err),
	)
	s.clearOAuthCookies(c)
	c.Redirect(http.StatusFound, oauthErrorRedirectTo)
}

func (s *Server) setOAuthCookie(c *gin.Context, name, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(oauthStateTTL.Seconds()), "/", "", s.cfg.AuthCookieSecure, true)
}

func (s *Server) clearOAuthCookies(c *gin.Context) {
	for _, name := range []string{oauthStateCookie, oauthVerifierCookie, oauthRedirectCookie} {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(name, "", -1, "/", "", s.cfg.AuthCookieSecure, true)
	}
}

// sanitizeRedirectPath only accepts same-origin absolute paths.
func sanitizeRedirectPath(raw string) string {
	target := strings.TrimSpace(raw)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return ""
	}
	if parsed, err := url.Parse(target); err != nil || parsed.Host != "" || parsed.Scheme != "" {
		return ""
	}
	return target
}

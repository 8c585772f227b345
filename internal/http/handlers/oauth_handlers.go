package handlers

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/you/notesvc/domain"
)

// OAuthHandlers handles the Google federation endpoints. provider is nil
// when Google credentials are not configured.
type OAuthHandlers struct {
	authSvc   domain.AuthService
	stateRepo domain.StateRepository
	provider  domain.IdentityProvider
	clientURL string
}

// NewOAuthHandlers creates new OAuth handlers
func NewOAuthHandlers(authSvc domain.AuthService, stateRepo domain.StateRepository, provider domain.IdentityProvider, clientURL string) *OAuthHandlers {
	return &OAuthHandlers{
		authSvc:   authSvc,
		stateRepo: stateRepo,
		provider:  provider,
		clientURL: clientURL,
	}
}

// GoogleLogin handles GET /api/auth/google. A fresh state nonce is stored
// before the consent redirect; the callback must present it back.
func (h *OAuthHandlers) GoogleLogin(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Google login is not configured"})
		return
	}

	state := uuid.NewString()
	if err := h.stateRepo.Create(c.Request.Context(), state); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing request"})
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// GoogleCallback handles GET /api/auth/google/callback. Every failure
// short of a malformed client URL sends the browser to the client's
// failure page rather than a JSON body.
func (h *OAuthHandlers) GoogleCallback(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Google login is not configured"})
		return
	}

	failureURL, err := url.Parse(h.clientURL)
	if err != nil {
		log.Printf("OAUTH_REDIRECT_FAILED: invalid client URL %q: %v", h.clientURL, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	failureURL = failureURL.JoinPath("/login/failed")

	if c.Query("error") != "" {
		c.Redirect(http.StatusFound, failureURL.String())
		return
	}

	state := c.Query("state")
	if state == "" || h.stateRepo.Consume(c.Request.Context(), state) != nil {
		c.Redirect(http.StatusFound, failureURL.String())
		return
	}

	profile, err := h.provider.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Printf("OAUTH_EXCHANGE_FAILED: %v", err)
		c.Redirect(http.StatusFound, failureURL.String())
		return
	}

	result, err := h.authSvc.FederatedLogin(c.Request.Context(), profile)
	if err != nil {
		log.Printf("OAUTH_LOGIN_FAILED: %v", err)
		c.Redirect(http.StatusFound, failureURL.String())
		return
	}

	successURL, err := url.Parse(h.clientURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	successURL = successURL.JoinPath("/login/success")
	q := successURL.Query()
	q.Set("token", result.Token)
	successURL.RawQuery = q.Encode()

	c.Redirect(http.StatusFound, successURL.String())
}

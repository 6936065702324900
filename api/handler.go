package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"trendmoni/auth"
	"trendmoni/models"
	"trendmoni/services"
	"trendmoni/utils"
)

var errUnknownView = errors.New("unknown dashboard view")

// Handler serves the auth, profile and dashboard endpoints.
type Handler struct {
	authority   *auth.Authority
	profiles    *services.ProfileService
	datasets    *services.DatasetCache
	recommender *services.RecommendationService
	logger      *utils.Logger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		authority:   d.Authority,
		profiles:    d.Profiles,
		datasets:    d.Datasets,
		recommender: d.Recommender,
		logger:      d.Logger,
	}
}

// SessionResponse is returned by every sign-in endpoint.
type SessionResponse struct {
	Token    string          `json:"token"`
	Identity auth.Identity   `json:"identity"`
	Profile  *models.Profile `json:"profile,omitempty"`
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	services.ProfileInput
}

// DashboardResponse is the full dashboard: the dataset snapshot plus the
// recommendations computed from it.
type DashboardResponse struct {
	Dataset         *models.Dataset         `json:"dataset"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

func (h *Handler) ListNiches(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"niches": services.AvailableNiches})
}

// SignInAnonymous mints a fresh anonymous identity.
func (h *Handler) SignInAnonymous(c *gin.Context) {
	id := h.authority.NewAnonymous()
	h.respondSession(c, http.StatusOK, id, nil)
}

// SignInWithToken resumes a session from a previously issued token and
// returns a renewed one.
func (h *Handler) SignInWithToken(c *gin.Context) {
	var req tokenRequest
	if !bind(c, &req) {
		return
	}
	id, err := h.authority.VerifyToken(req.Token)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, id, nil)
}

// SignUp registers a credential and creates the company profile in one step.
// Every input problem is reported before the account is created.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if !bind(c, &req) {
		return
	}
	if err := h.profiles.CheckSignUp(req.Password, req.ProfileInput); err != nil {
		writeError(c, err)
		return
	}

	id, err := h.authority.Register(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	req.ProfileInput.Email = id.Email
	p, err := h.profiles.Create(c.Request.Context(), id.UserID, req.ProfileInput)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondSession(c, http.StatusCreated, id, p)
}

// Login signs in with an email/password pair.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if !bind(c, &req) {
		return
	}
	id, err := h.authority.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), id.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.respondSession(c, http.StatusOK, id, p)
}

// Logout drops the server-side dataset snapshot. Tokens stay valid until
// they expire.
func (h *Handler) Logout(c *gin.Context) {
	h.datasets.Invalidate(identityFrom(c).UserID)
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.loadProfile(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PutProfile creates the caller's profile, or replaces its editable fields
// if one already exists.
func (h *Handler) PutProfile(c *gin.Context) {
	var in services.ProfileInput
	if !bind(c, &in) {
		return
	}
	id := identityFrom(c)
	ctx := c.Request.Context()

	existing, err := h.profiles.Get(ctx, id.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if existing == nil {
		if id.Email != "" {
			in.Email = id.Email
		}
		p, err := h.profiles.Create(ctx, id.UserID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
		return
	}

	p, err := h.profiles.Replace(ctx, id.UserID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PatchProfile merges a partial update into the caller's profile.
func (h *Handler) PatchProfile(c *gin.Context) {
	var patch models.ProfilePatch
	if !bind(c, &patch) {
		return
	}
	p, err := h.profiles.Update(c.Request.Context(), identityFrom(c).UserID, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Dashboard returns the whole dataset for the caller's niches.
func (h *Handler) Dashboard(c *gin.Context) {
	ds, err := h.dataset(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, DashboardResponse{
		Dataset:         ds,
		Recommendations: h.recommender.Recommend(ds.GrowthData, ds.CompetitorSeries()),
	})
}

// DashboardView returns a single dashboard section.
func (h *Handler) DashboardView(c *gin.Context) {
	ds, err := h.dataset(c)
	if err != nil {
		writeError(c, err)
		return
	}

	view := c.Param("view")
	switch view {
	case "trends":
		c.JSON(http.StatusOK, ds.Trends)
	case "influencers":
		c.JSON(http.StatusOK, ds.Influencers)
	case "growth":
		c.JSON(http.StatusOK, ds.GrowthData)
	case "competitors":
		c.JSON(http.StatusOK, ds.Competitors)
	case "notifications":
		c.JSON(http.StatusOK, ds.Notifications)
	case "recommendations":
		c.JSON(http.StatusOK, h.recommender.Recommend(ds.GrowthData, ds.CompetitorSeries()))
	default:
		writeError(c, fmt.Errorf("%w: %s", errUnknownView, view))
	}
}

func (h *Handler) loadProfile(c *gin.Context) (*models.Profile, error) {
	p, err := h.profiles.Get(c.Request.Context(), identityFrom(c).UserID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, services.ErrProfileNotFound
	}
	return p, nil
}

func (h *Handler) dataset(c *gin.Context) (*models.Dataset, error) {
	p, err := h.loadProfile(c)
	if err != nil {
		return nil, err
	}
	return h.datasets.Get(identityFrom(c).UserID, p.Niches), nil
}

func (h *Handler) respondSession(c *gin.Context, status int, id auth.Identity, p *models.Profile) {
	token, err := h.authority.IssueToken(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, SessionResponse{Token: token, Identity: id, Profile: p})
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, &bindError{err: err})
		return false
	}
	return true
}

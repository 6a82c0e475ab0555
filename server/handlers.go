package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Saurasai/pmv2/generator"
	"github.com/Saurasai/pmv2/logger"
	"github.com/Saurasai/pmv2/metrics"
	"github.com/Saurasai/pmv2/publisher"
	"github.com/Saurasai/pmv2/store"
)

type userCreateReq struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	AdminSecret     string `json:"admin_secret"`
	IsAdmin         bool   `json:"is_admin"`
	Tier            string `json:"tier"`
}

func (s *Server) registerUser(c *gin.Context) {
	var req userCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Passwords do not match"})
		return
	}
	if req.IsAdmin && (s.cfg.AdminSecret == "" || req.AdminSecret != s.cfg.AdminSecret) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid admin secret"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}

	user := &store.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Password: string(hashed),
		APIKey:   uuid.NewString(),
		Tier:     req.Tier,
		IsAdmin:  req.IsAdmin,
	}
	if err := s.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "User already exists"})
			return
		}
		s.log.Error("user creation failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}

	s.log.Info("user created",
		logger.String("email", user.Email),
		logger.Bool("is_admin", user.IsAdmin))
	c.JSON(http.StatusOK, gin.H{"api_key": user.APIKey})
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	user, err := s.store.UserByEmail(c.Request.Context(), req.Email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password))
	}
	if err != nil {
		s.log.Warn("login failed", logger.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"api_key": user.APIKey, "message": "Login successful"})
}

func (s *Server) getUser(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"email":    user.Email,
		"tier":     user.Tier,
		"is_admin": user.IsAdmin,
	})
}

type generateReq struct {
	Topic     string   `json:"topic" binding:"required"`
	Tone      string   `json:"tone"`
	Hashtags  string   `json:"hashtags"`
	Insight   string   `json:"insight"`
	Platforms []string `json:"platforms"`
}

// generateDrafts runs the concurrent per-platform pipeline. Each platform
// yields at most three drafts; a platform whose generation failed yields an
// empty list without affecting the others. Markers are stripped before the
// response so displayed content never carries the ordinal prefix.
func (s *Server) generateDrafts(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = generator.DefaultPlatforms
	}
	vars := map[string]string{
		"topic":    req.Topic,
		"tone":     req.Tone,
		"hashtags": req.Hashtags,
		"insight":  req.Insight,
	}

	byPlatform := s.pipeline.DraftsForAll(c.Request.Context(), platforms, vars)

	out := make(map[string][]string, len(byPlatform))
	for platform, drafts := range byPlatform {
		metrics.DraftsGenerated.WithLabelValues(platform).Add(float64(len(drafts)))
		cleaned := make([]string, len(drafts))
		for i, d := range drafts {
			cleaned[i] = generator.StripMarker(d)
		}
		out[platform] = cleaned
	}
	c.JSON(http.StatusOK, gin.H{"drafts": out})
}

type draftReq struct {
	Content  string `json:"content" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

func (s *Server) saveDraft(c *gin.Context) {
	var req draftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	user := currentUser(c)

	draft := &store.Draft{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Content:   generator.StripMarker(req.Content),
		Platform:  req.Platform,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.CreateDraft(c.Request.Context(), draft); err != nil {
		s.log.Error("draft save failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "id": draft.ID})
}

func (s *Server) listDrafts(c *gin.Context) {
	user := currentUser(c)
	drafts, err := s.store.DraftsByUser(c.Request.Context(), user.ID)
	if err != nil {
		s.log.Error("draft list failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}
	c.JSON(http.StatusOK, drafts)
}

// previewDraft renders a stored draft's markdown to HTML for the dashboard.
func (s *Server) previewDraft(c *gin.Context) {
	user := currentUser(c)
	draft, err := s.store.DraftByID(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Draft not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(draft.Content), &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Render error"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

type postReq struct {
	Post             string   `json:"post" binding:"required"`
	Platforms        []string `json:"platforms" binding:"required"`
	RequiresApproval bool     `json:"requiresApproval"`
	Notes            string   `json:"notes"`
}

func (s *Server) createPost(c *gin.Context) {
	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	for _, p := range req.Platforms {
		if !publisher.Supported(p) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid platforms"})
			return
		}
	}

	user := currentUser(c)
	if !user.IsAdmin {
		for _, p := range req.Platforms {
			if p == "twitter" {
				c.JSON(http.StatusForbidden, gin.H{"detail": "Twitter posting restricted to admin users"})
				return
			}
		}
	}

	status := "success"
	if req.RequiresApproval {
		status = "awaiting_approval"
	}

	results := make([]publisher.PostResult, 0, len(req.Platforms))
	for _, platform := range req.Platforms {
		res := s.pub.Post(c.Request.Context(), user.ID, platform, req.Post)
		metrics.PostsPublished.WithLabelValues(platform, res.Status).Inc()
		results = append(results, res)
	}

	postID := uuid.NewString()
	platformsJSON, _ := json.Marshal(req.Platforms)
	resultsJSON, _ := json.Marshal(results)
	post := &store.Post{
		ID:        postID,
		UserID:    user.ID,
		Content:   req.Post,
		Platforms: string(platformsJSON),
		Status:    status,
		PostIDs:   string(resultsJSON),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.CreatePost(c.Request.Context(), post); err != nil {
		s.log.Error("post save failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}
	if err := s.store.IncrementMonthlyPosts(c.Request.Context(), user.ID); err != nil {
		s.log.Error("monthly post counter", logger.Err(err))
	}

	s.log.Info("post created",
		logger.String("post_id", postID),
		logger.String("user_id", user.ID),
		logger.Strings("platforms", req.Platforms))
	c.JSON(http.StatusOK, gin.H{"status": status, "id": postID, "postIds": results})
}

func (s *Server) deletePost(c *gin.Context) {
	user := currentUser(c)
	err := s.store.DeletePost(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type platformTokenReq struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
	Expiry       int64  `json:"expiry"`
}

// storePlatformToken saves a user's platform credentials, encrypted at rest.
func (s *Server) storePlatformToken(c *gin.Context) {
	platform := c.Param("platform")
	if !publisher.Supported(platform) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid platforms"})
		return
	}
	var req platformTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if s.cipher == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Token encryption not configured"})
		return
	}

	user := currentUser(c)
	access, err := s.cipher.Encrypt(req.AccessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}
	tok := &store.PlatformToken{
		UserID:      user.ID,
		Platform:    platform,
		AccessToken: access,
		Expiry:      req.Expiry,
	}
	if req.RefreshToken != "" {
		refresh, err := s.cipher.Encrypt(req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
			return
		}
		tok.RefreshToken = &refresh
	}
	if err := s.store.UpsertPlatformToken(c.Request.Context(), tok); err != nil {
		s.log.Error("token save failed", logger.Err(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

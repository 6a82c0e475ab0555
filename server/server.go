// Package server exposes the Post Muse HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"

	"github.com/Saurasai/pmv2/config"
	"github.com/Saurasai/pmv2/generator"
	"github.com/Saurasai/pmv2/logger"
	"github.com/Saurasai/pmv2/metrics"
	"github.com/Saurasai/pmv2/publisher"
	"github.com/Saurasai/pmv2/store"
)

// freeTierPostLimit caps monthly posts for free-tier accounts.
const freeTierPostLimit = 20

const userKey = "user"

// defaultCORSOrigins mirrors the dashboard deployments allowed to call the
// API when no origins are configured.
var defaultCORSOrigins = []string{
	"https://postmusev3.streamlit.app",
	"http://localhost:8501",
}

// Server holds the API dependencies.
type Server struct {
	cfg      config.Config
	store    *store.Store
	pipeline *generator.Pipeline
	pub      *publisher.Publisher
	cipher   *publisher.TokenCipher
	log      logger.Logger
	md       goldmark.Markdown
}

// New wires the API server.
func New(cfg config.Config, st *store.Store, pipe *generator.Pipeline, pub *publisher.Publisher, cipher *publisher.TokenCipher, log logger.Logger) (*Server, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if pipe == nil {
		return nil, errors.New("generation pipeline is required")
	}
	if pub == nil {
		return nil, errors.New("publisher is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		cfg:      cfg,
		store:    st,
		pipeline: pipe,
		pub:      pub,
		cipher:   cipher,
		log:      log,
		md:       goldmark.New(),
	}, nil
}

// Routes builds the gin engine with all endpoints registered.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.POST("/user", s.registerUser)
	api.POST("/login", s.login)

	authed := api.Group("", s.authRequired())
	authed.GET("/user", s.getUser)
	authed.POST("/generate", s.generateDrafts)
	authed.POST("/draft", s.saveDraft)
	authed.GET("/drafts", s.listDrafts)
	authed.GET("/drafts/:id/preview", s.previewDraft)
	authed.POST("/post", s.createPost)
	authed.DELETE("/post/:id", s.deletePost)
	authed.POST("/platform/:platform/token", s.storePlatformToken)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "post-muse"})
}

// authRequired resolves the Bearer API key to a user and enforces the free
// tier post cap, matching the original service's auth dependency.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid API key"})
			return
		}

		user, err := s.store.UserByAPIKey(c.Request.Context(), token)
		if err != nil {
			s.log.Warn("auth failed", logger.String("key_prefix", keyPrefix(token)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid API key"})
			return
		}
		if user.Tier == "free" && user.MonthlyPosts >= freeTierPostLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Free tier limit reached"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *store.User {
	u, _ := c.Get(userKey)
	user, _ := u.(*store.User)
	return user
}

func keyPrefix(token string) string {
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return "..."
}

// storeTokens adapts the store plus cipher into publisher.TokenSource.
type storeTokens struct {
	store  *store.Store
	cipher *publisher.TokenCipher
}

// NewTokenSource returns the TokenSource used when wiring the publisher.
func NewTokenSource(st *store.Store, cipher *publisher.TokenCipher) publisher.TokenSource {
	return storeTokens{store: st, cipher: cipher}
}

func (t storeTokens) AccessToken(ctx context.Context, userID, platform string) (string, error) {
	tok, err := t.store.PlatformTokenFor(ctx, userID, platform)
	if err != nil {
		return "", err
	}
	if t.cipher == nil {
		return tok.AccessToken, nil
	}
	return t.cipher.Decrypt(tok.AccessToken)
}

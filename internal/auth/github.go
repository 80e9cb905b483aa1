package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	sharedauth "coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/telemetry"
)

const (
	defaultGitHubAPI = "https://api.github.com"
	sessionTTL       = 7 * 24 * time.Hour
)

// GitHubService signs users in with GitHub and issues session JWTs.
type GitHubService struct {
	oauthConfig *oauth2.Config
	apiBaseURL  string
	uiRedirect  string
	secret      []byte
	stateTTL    time.Duration
	stateStore  *stateStore
	users       LoginRecorder
}

// LoginRecorder persists the identity of each successful sign-in.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, id sharedauth.Authenticated) error
}

// GitHubConfig holds the OAuth app settings.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	UIRedirect   string
	// Endpoint and APIBaseURL default to github.com.
	Endpoint   oauth2.Endpoint
	APIBaseURL string
	// Users is optional.
	Users LoginRecorder
}

// NewGitHubService builds a GitHubService that signs sessions with secret.
func NewGitHubService(cfg GitHubConfig, secret []byte) *GitHubService {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = github.Endpoint
	}
	api := cfg.APIBaseURL
	if api == "" {
		api = defaultGitHubAPI
	}
	return &GitHubService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     endpoint,
		},
		apiBaseURL: api,
		uiRedirect: cfg.UIRedirect,
		secret:     secret,
		stateTTL:   5 * time.Minute,
		stateStore: newStateStore(),
		users:      cfg.Users,
	}
}

// RegisterRoutes attaches GitHub auth routes.
func (s *GitHubService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/github/start", s.start)
	rg.GET("/auth/github/callback", s.callback)
}

func (s *GitHubService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GitHubService) start(c *gin.Context) {
	if !s.configured() {
		respond.Error(c, http.StatusServiceUnavailable, "auth_not_configured", "GitHub auth not configured")
		return
	}

	state := uuid.NewString()
	s.stateStore.put(state, time.Now().Add(s.stateTTL))
	c.Redirect(http.StatusFound, s.oauthConfig.AuthCodeURL(state))
}

func (s *GitHubService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code")
		return
	}
	if !s.stateStore.consume(state) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state")
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.github.exchange_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code")
		return
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		telemetry.Warn("auth.github.profile_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile")
		return
	}

	id := sharedauth.Authenticated{
		UserID:   "github:" + strconv.FormatInt(profile.ID, 10),
		Email:    profile.Email,
		Name:     profile.displayName(),
		Provider: "github",
	}
	if s.users != nil {
		if err := s.users.RecordLogin(ctx, id); err != nil {
			telemetry.Warn("auth.github.record_login_failed", map[string]any{"user_id": id.UserID, "error": err})
		}
	}

	jwt, err := sharedauth.SignJWT(s.secret, id, sessionTTL)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token")
		return
	}

	redirectURL, err := appendToken(s.uiRedirect, jwt)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to redirect")
		return
	}
	c.Redirect(http.StatusFound, redirectURL)
}

type githubProfile struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p githubProfile) displayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Login
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (s *GitHubService) fetchProfile(ctx context.Context, token *oauth2.Token) (githubProfile, error) {
	client := s.oauthConfig.Client(ctx, token)

	var profile githubProfile
	if err := getJSON(client, s.apiBaseURL+"/user", &profile); err != nil {
		return githubProfile{}, err
	}
	if profile.ID == 0 {
		return githubProfile{}, errors.New("profile without id")
	}

	// Private emails are only listed on /user/emails.
	if profile.Email == "" {
		var emails []githubEmail
		if err := getJSON(client, s.apiBaseURL+"/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary && e.Verified {
					profile.Email = e.Email
					break
				}
			}
		}
	}
	return profile, nil
}

func getJSON(client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s status %d", endpoint, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type stateStore struct {
	items map[string]time.Time
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]time.Time)}
}

func (s *stateStore) put(state string, exp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, v := range s.items {
		if now.After(v) {
			delete(s.items, k)
		}
	}
	s.items[state] = exp
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	exp, ok := s.items[state]
	delete(s.items, state)
	s.mu.Unlock()
	return ok && !time.Now().After(exp)
}

func appendToken(rawURL, token string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

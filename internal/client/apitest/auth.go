package apitest

import (
	"fmt"
	"net/http"
	"net/mail"
	"path"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxAvatarSize = 2 << 20

// issue is one entry of a FastAPI validation error list.
type issue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func invalid(c *gin.Context, issues []issue) bool {
	if len(issues) == 0 {
		return false
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": issues})
	return true
}

func lengthIssue(field, value string, minLen, maxLen int) []issue {
	n := len([]rune(value))
	switch {
	case n < minLen:
		return []issue{{Loc: []string{"body", field}, Msg: fmt.Sprintf("String should have at least %d characters", minLen), Type: "string_too_short"}}
	case maxLen > 0 && n > maxLen:
		return []issue{{Loc: []string{"body", field}, Msg: fmt.Sprintf("String should have at most %d characters", maxLen), Type: "string_too_long"}}
	}
	return nil
}

func emailIssue(value string) []issue {
	if _, err := mail.ParseAddress(value); err != nil || !strings.Contains(value, "@") {
		return []issue{{Loc: []string{"body", "email"}, Msg: "value is not a valid email address", Type: "value_error"}}
	}
	return nil
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []issue{
			{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"},
		}})
		return false
	}
	return true
}

func (b *Backend) register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	var issues []issue
	issues = append(issues, lengthIssue("username", req.Username, 3, 50)...)
	issues = append(issues, emailIssue(req.Email)...)
	issues = append(issues, lengthIssue("password", req.Password, 6, 100)...)
	if invalid(c, issues) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Username == req.Username {
			abort(c, http.StatusBadRequest, "Username already registered")
			return
		}
		if u.Email == req.Email {
			abort(c, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	u := b.addUserLocked(req.Username, req.Email, req.Password)
	c.JSON(http.StatusCreated, u.UserProfile)
}

func (b *Backend) login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	b.mu.Lock()
	var found *user
	for _, u := range b.users {
		if u.Username == req.Username {
			found = u
			break
		}
	}
	gen := b.generation
	b.mu.Unlock()

	if found == nil || !found.password.matches(req.Password) {
		abort(c, http.StatusUnauthorized, DetailBadCredentials)
		return
	}

	token, err := issueToken(found.ID, gen, b.secret, b.ttl)
	if err != nil {
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, models.Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(b.ttl.Seconds()),
	})
}

func (b *Backend) profile(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c.JSON(http.StatusOK, b.users[currentUser(c)].UserProfile)
}

func (b *Backend) updateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	var issues []issue
	if req.Username != "" {
		issues = append(issues, lengthIssue("username", req.Username, 3, 50)...)
	}
	if req.Email != "" {
		issues = append(issues, emailIssue(req.Email)...)
	}
	if invalid(c, issues) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	me := b.users[currentUser(c)]
	for _, u := range b.users {
		if u.ID == me.ID {
			continue
		}
		if req.Username != "" && u.Username == req.Username {
			abort(c, http.StatusBadRequest, "Username already registered")
			return
		}
		if req.Email != "" && u.Email == req.Email {
			abort(c, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	if req.Username != "" {
		me.Username = req.Username
	}
	if req.Email != "" {
		me.Email = req.Email
	}
	me.UpdatedAt = models.Time{Time: b.clock()}
	c.JSON(http.StatusOK, me.UserProfile)
}

func (b *Backend) changePassword(c *gin.Context) {
	var req models.PasswordChange
	if !bindJSON(c, &req) {
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		abort(c, http.StatusBadRequest, "Old and new password are required")
		return
	}
	if len(req.NewPassword) < 6 {
		abort(c, http.StatusBadRequest, "New password must be at least 6 characters")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	me := b.users[currentUser(c)]
	if !me.password.matches(req.OldPassword) {
		abort(c, http.StatusBadRequest, "Old password is incorrect")
		return
	}
	me.password = hashPassword(req.NewPassword)
	me.UpdatedAt = models.Time{Time: b.clock()}
	c.JSON(http.StatusOK, models.Message{Message: "Password changed"})
}

func (b *Backend) uploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		invalid(c, []issue{{Loc: []string{"body", "file"}, Msg: "Field required", Type: "missing"}})
		return
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") && !isImageName(fh.Filename) {
		abort(c, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	if fh.Size > maxAvatarSize {
		abort(c, http.StatusBadRequest, "File size must not exceed 2MB")
		return
	}

	ext := path.Ext(fh.Filename)
	if ext == "" {
		ext = ".jpg"
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	me := b.users[currentUser(c)]
	url := fmt.Sprintf("/uploads/avatars/avatar_%d_%s%s", me.ID, uuid.NewString(), ext)
	me.Avatar = url
	me.AvatarURL = url
	me.UpdatedAt = models.Time{Time: b.clock()}
	c.JSON(http.StatusOK, models.AvatarUpload{AvatarURL: url, Message: "Avatar uploaded"})
}

func isImageName(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

func (b *Backend) logout(c *gin.Context) {
	c.JSON(http.StatusOK, models.Message{Message: "Logged out"})
}

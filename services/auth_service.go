package services

import (
	"log"
	"time"

	"camera-logistics-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

type AuthService struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{DB: db, JWTSecret: []byte(jwtSecret)}
}

// Login checks credentials, enforces the failed-attempt lockout and issues a
// JWT. Every call is recorded as a LoginAttempt, success or not. Note that
// resource routes do not require the token; it only gates /auth/me.
func (s *AuthService) Login(c *fiber.Ctx) error {
	type Req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "username and password are required"})
	}

	var user models.User
	if err := s.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		s.recordAttempt(c.IP(), req.Username, false)
		if err == gorm.ErrRecordNotFound {
			return c.Status(401).JSON(fiber.Map{"error": "invalid credentials"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	if user.LockoutUntil != nil && user.LockoutUntil.After(time.Now()) {
		s.recordAttempt(c.IP(), req.Username, false)
		return c.Status(403).JSON(fiber.Map{
			"error":        "account locked",
			"lockoutUntil": user.LockoutUntil,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.recordAttempt(c.IP(), req.Username, false)
		updates := map[string]interface{}{"failed_attempts": user.FailedAttempts + 1}
		if user.FailedAttempts+1 >= maxFailedAttempts {
			until := time.Now().Add(lockoutDuration)
			updates["lockout_until"] = &until
			updates["failed_attempts"] = 0
		}
		if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("failed to record login failure for %s: %v", req.Username, err)
		}
		return c.Status(401).JSON(fiber.Map{"error": "invalid credentials"})
	}

	s.recordAttempt(c.IP(), req.Username, true)
	now := time.Now()
	err := s.DB.Model(&user).Updates(map[string]interface{}{
		"failed_attempts": 0,
		"lockout_until":   nil,
		"last_login":      now.Format(time.RFC3339),
	}).Error
	if err != nil {
		log.Printf("failed to update last login for %s: %v", req.Username, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Username,
		"role": user.Role,
		"exp":  now.Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.JWTSecret)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "token signing failed"})
	}

	return c.JSON(fiber.Map{
		"token": signed,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Me returns the account behind the token validated by the user-context
// middleware.
func (s *AuthService) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Not found"})
	}
	return c.JSON(user)
}

// ValidateToken parses a bearer token and returns the user id claim.
func (s *AuthService) ValidateToken(tokenStr string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return s.JWTSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", jwt.ErrTokenInvalidClaims
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	return sub, role, nil
}

func (s *AuthService) recordAttempt(ip, username string, success bool) {
	attempt := models.LoginAttempt{
		IP:        ip,
		Username:  username,
		Success:   success,
		Timestamp: time.Now(),
	}
	if err := s.DB.Create(&attempt).Error; err != nil {
		log.Printf("failed to record login attempt: %v", err)
	}
}

// EnsureAdminUser creates the bootstrap admin account when no users exist.
func (s *AuthService) EnsureAdminUser(username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	var count int64
	if err := s.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: string(hash),
		Role:     "admin",
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return err
	}
	log.Printf("Created bootstrap admin user %q", username)
	return nil
}

package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/pkg/response"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Name       string `json:"name" binding:"required"`
	Passphrase string `json:"passphrase" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Handler handles the pastor passphrase gate.
type Handler struct {
	passphrases *PassphraseList
	jwt         *JWTService
	logger      *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(passphrases *PassphraseList, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{passphrases: passphrases, jwt: jwt, logger: logger}
}

// Login handles POST /auth/login. A matching passphrase grants a pastor
// token; there are no individual accounts.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if h.passphrases.Empty() || !h.passphrases.Verify(req.Passphrase) {
		response.Unauthorized(c, "invalid passphrase")
		return
	}

	token, err := h.jwt.Generate(req.Name)
	if err != nil {
		h.logger.Error("generate token failed", zap.Error(err))
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{Token: token, Name: req.Name, Role: RolePastor})
}

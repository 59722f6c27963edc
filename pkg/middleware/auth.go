package middleware

import (
	"errors"
	"strings"

	"github.com/NeuralTrust/TrustDetect/pkg/common"
	"github.com/NeuralTrust/TrustDetect/pkg/infra/auth/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type authMiddleware struct {
	logger     *logrus.Logger
	jwtManager jwt.Manager
}

func NewAuthMiddleware(logger *logrus.Logger, jwtManager jwt.Manager) Middleware {
	return &authMiddleware{
		logger:     logger,
		jwtManager: jwtManager,
	}
}

func (m *authMiddleware) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.logger.WithError(err).WithField("path", c.Path()).Debug("rejected token")
			message := "invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
		}

		c.Locals(common.SubjectContextKey, claims.Subject)
		return c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

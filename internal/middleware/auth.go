package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextDoctorID  = "doctorID"
	ContextPatientID = "patientID"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, role)

		// perfil vinculado: só um dos dois vem no token
		if id, ok := claims["doctorId"].(float64); ok {
			c.Set(ContextDoctorID, uint(id))
		}
		if id, ok := claims["patientId"].(float64); ok {
			c.Set(ContextPatientID, uint(id))
		}

		c.Next()
	}
}

// ActorFrom monta o ator da requisição a partir do contexto autenticado.
func ActorFrom(c *gin.Context) domain.Actor {
	actor := domain.Actor{
		UserID: c.GetUint(ContextUserID),
		Role:   c.GetString(ContextUserRole),
	}
	if v, ok := c.Get(ContextDoctorID); ok {
		id := v.(uint)
		actor.DoctorID = &id
	}
	if v, ok := c.Get(ContextPatientID); ok {
		id := v.(uint)
		actor.PatientID = &id
	}
	return actor
}

package middleware

import (
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"taskflow/internal/auth"
)

// rbacModel is the Casbin RBAC model, defined in code so the binary is
// self-contained.
const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

// policies gates the two role-scoped route trees.
var policies = [][]string{
	{"admin", "/api/admin/*", "*"},
	{"employee", "/api/employee/*", "*"},
}

// NewEnforcer builds the Casbin enforcer with the in-code model and policies.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch", util.KeyMatchFunc)
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	return enforcer, nil
}

// RBAC enforces role access on the request path using the caller claims set
// by the session middleware.
func RBAC(enforcer *casbin.Enforcer, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.SessionClaims)
			if !ok || claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized: Please log in."})
			}
			allowed, err := enforcer.Enforce(string(claims.Role), c.Request().URL.Path, c.Request().Method)
			if err != nil {
				log.Error("casbin enforce error", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server Error."})
			}
			if !allowed {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: insufficient permissions"})
			}
			return next(c)
		}
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justinas/nosurf"
)

type ginContextKey struct{}

func ginContext(r *http.Request) *gin.Context {
	c, _ := r.Context().Value(ginContextKey{}).(*gin.Context)
	return c
}

// CSRF checks the nosurf token on every unsafe request. It belongs after
// SecurityHeaders and BodyLimit so the token lookup reads a capped body and
// rejections carry the usual headers. failure (or a bare 400) answers
// requests whose token is missing or wrong.
func CSRF(secureCookie bool, failure gin.HandlerFunc) gin.HandlerFunc {
	csrf := nosurf.New(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		c := ginContext(r)
		c.Request = r
		c.Next()
	}))
	csrf.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	csrf.SetFailureHandler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		c := ginContext(r)
		c.Request = r
		if failure != nil {
			failure(c)
		} else {
			c.Status(http.StatusBadRequest)
		}
		c.Abort()
	}))

	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), ginContextKey{}, c)
		csrf.ServeHTTP(c.Writer, c.Request.WithContext(ctx))
	}
}

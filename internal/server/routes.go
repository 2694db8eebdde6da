package server

import (
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	formsubmit "github.com/goliatone/go-formsubmit"
	"github.com/goliatone/go-formsubmit/internal/server/store"
	"github.com/goliatone/go-formsubmit/pkg/envelope"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	notFoundBody    = "<h1>404</h1><p>Page Not Found</p>"
	notAllowedBody  = "<h1>405 Not Allowed</h1>"
	homePath        = "/home"
)

func (s *Server) routes() {
	r := s.engine

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/login")
	})
	r.GET("/login", s.showLogin)
	r.POST("/login", s.login)
	r.GET("/register", s.showRegister)
	r.POST("/register", s.register)
	r.GET("/logout", s.logout)
	r.POST("/logout", s.logout)
	r.GET(homePath, s.sessions.RequireSession(), s.home)
	r.GET("/openapi.yaml", s.openAPI)
	r.GET(RuntimePrefix+"*filepath", s.runtime)

	r.NoRoute(func(c *gin.Context) {
		c.Data(http.StatusNotFound, htmlContentType, []byte(notFoundBody))
	})
	r.NoMethod(func(c *gin.Context) {
		c.Data(http.StatusMethodNotAllowed, htmlContentType, []byte(notAllowedBody))
	})
}

func (s *Server) showLogin(c *gin.Context) {
	if _, ok := s.sessions.Current(c); ok {
		c.Redirect(http.StatusSeeOther, homePath)
		return
	}
	s.render(c, http.StatusOK, "logreg", s.loginPage(s.now()))
}

func (s *Server) showRegister(c *gin.Context) {
	if _, ok := s.sessions.Current(c); ok {
		c.Redirect(http.StatusSeeOther, homePath)
		return
	}
	s.render(c, http.StatusOK, "logreg", s.registerPage(s.now()))
}

func (s *Server) login(c *gin.Context) {
	if _, ok := s.sessions.Current(c); ok {
		c.JSON(http.StatusOK, loggedIn())
		return
	}

	var in LoginForm
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, malformedBody())
		return
	}

	user, failures := s.checkLogin(c.Request.Context(), in)
	if failures != nil {
		c.JSON(http.StatusBadRequest, failures)
		return
	}

	if err := s.sessions.Issue(c, user); err != nil {
		s.logf("issue session: %v", err)
		c.JSON(http.StatusInternalServerError, sessionFailed())
		return
	}
	c.JSON(http.StatusOK, loggedIn())
}

func (s *Server) register(c *gin.Context) {
	if _, ok := s.sessions.Current(c); ok {
		c.JSON(http.StatusCreated, registered())
		return
	}

	var in RegisterForm
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, malformedBody())
		return
	}

	ctx := c.Request.Context()
	if failures := s.checkRegistration(ctx, in); failures != nil {
		c.JSON(http.StatusBadRequest, failures)
		return
	}

	user, err := s.store.Create(ctx, store.NewUser{
		FirstName: sanitizeName(in.FirstName),
		LastName:  sanitizeName(in.LastName),
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		s.logf("register %s: %v", store.NormalizeEmail(in.Email), err)
		c.JSON(http.StatusBadRequest, registrationFailed())
		return
	}

	if err := s.sessions.Issue(c, user); err != nil {
		s.logf("issue session: %v", err)
		c.JSON(http.StatusInternalServerError, sessionFailed())
		return
	}
	c.JSON(http.StatusCreated, registered())
}

func (s *Server) logout(c *gin.Context) {
	s.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) home(c *gin.Context) {
	page := HomePage{Title: "Home", Year: s.now().Year()}
	if claims := claimsFrom(c); claims != nil {
		page.Name = claims.FirstName
	}
	s.render(c, http.StatusOK, "home", page)
}

func (s *Server) openAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", formsubmit.OpenAPIDocument())
}

func (s *Server) runtime(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")
	switch name {
	case "formsubmit.wasm":
		s.serveFile(c, s.cfg.WasmPath, "application/wasm")
	case "wasm_exec.js":
		s.serveFile(c, s.cfg.WasmExecPath, "text/javascript; charset=utf-8")
	default:
		assets := formsubmit.RuntimeAssetsFS()
		if name == "" {
			c.Data(http.StatusNotFound, htmlContentType, []byte(notFoundBody))
			return
		}
		if info, err := fs.Stat(assets, name); err != nil || info.IsDir() {
			c.Data(http.StatusNotFound, htmlContentType, []byte(notFoundBody))
			return
		}
		c.FileFromFS(name, http.FS(assets))
	}
}

func (s *Server) serveFile(c *gin.Context, path, contentType string) {
	if path == "" {
		c.Data(http.StatusNotFound, htmlContentType, []byte(notFoundBody))
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		c.Data(http.StatusNotFound, htmlContentType, []byte(notFoundBody))
		return
	}
	c.Header("Content-Type", contentType)
	c.File(path)
}

func (s *Server) render(c *gin.Context, status int, name string, data any) {
	html, err := s.views.Render(name, data)
	if err != nil {
		s.logf("render %s: %v", name, err)
		c.Data(http.StatusInternalServerError, htmlContentType, []byte("<h1>500</h1>"))
		return
	}
	c.Data(status, htmlContentType, []byte(html))
}

func succeeded(status int, message string) *envelope.Envelope {
	env := envelope.New(status)
	_ = env.Set("message", message)
	_ = env.Set("redirect", homePath)
	return env
}

func loggedIn() *envelope.Envelope {
	return succeeded(http.StatusOK, "User Logged In Successfully")
}

func registered() *envelope.Envelope {
	return succeeded(http.StatusCreated, "User Registered Successfully")
}

func malformedBody() *envelope.Envelope {
	return envelope.New(http.StatusBadRequest).Add(envelope.GlobalKey, envelope.FieldError{
		Code:    "malformed",
		Message: envelope.Message("Malformed request body"),
	})
}

func sessionFailed() *envelope.Envelope {
	return envelope.New(http.StatusInternalServerError).Add(envelope.GlobalKey, envelope.FieldError{
		Code:    "session_error",
		Message: envelope.Message("Could not start a session"),
	})
}

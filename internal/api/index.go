package api

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html static/app.js
var static embed.FS

// Index handles GET / and serves the graph viewer page.
func Index(c *gin.Context) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "page unavailable")

		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// Script handles GET /static/app.js.
func Script(c *gin.Context) {
	js, err := static.ReadFile("static/app.js")
	if err != nil {
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "script unavailable")

		return
	}

	c.Data(http.StatusOK, "text/javascript; charset=utf-8", js)
}

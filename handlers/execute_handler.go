package handlers

import (
	"net/http"

	"github.com/Tharunkunamalla/CodeSync/runner"

	"github.com/gin-gonic/gin"
)

type ExecuteInput struct {
	Language string `json:"language"`
	Files    []struct {
		Content string `json:"content"`
	} `json:"files"`
}

func Health(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func Execute(proxy *runner.Proxy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body ExecuteInput
		// Permissive contract: malformed or missing files means empty source.
		_ = c.ShouldBindJSON(&body)

		source := ""
		if len(body.Files) > 0 {
			source = body.Files[0].Content
		}

		result, err := proxy.Execute(c.Request.Context(), body.Language, source)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Execution servers are currently busy. Please try again.",
			})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

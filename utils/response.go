package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func JSON200(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"status": 200, "data": data})
}

func JSON201(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"status": 201, "data": data})
}

func JSON400(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"status": 400, "error": message})
}

func JSON401(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "error": message})
}

func JSON404(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"status": 404, "error": message})
}

func JSON409(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, gin.H{"status": 409, "error": message})
}

func JSON500(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "error": message})
}

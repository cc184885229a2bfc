package app

import "github.com/gin-gonic/gin"

// Controller is implemented by every inbound HTTP adapter; NewEngine routes
// each of its RoutesInfo entries onto the shared Gin engine.
type Controller interface {
	RoutesInfo() gin.RoutesInfo
}

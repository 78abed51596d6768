package main

import (
	"github.com/nguyentranbao-ct/product-catalog/internal/app"
	"github.com/nguyentranbao-ct/product-catalog/internal/server"
	"github.com/nguyentranbao-ct/product-catalog/pkg/logger"
)

func main() {
	defer logger.Sync()
	app.Invoke(server.StartServer).Run()
}

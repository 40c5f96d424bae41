package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"album-server/internal/config"
	"album-server/internal/consts"
	"album-server/internal/db"
	"album-server/internal/middleware"
	"album-server/internal/router"
	"album-server/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configDir := flag.String("config", "config", "configuration directory")
	flag.Parse()

	config.InitConfig(*configDir)
	db.InitDB()

	if err := service.SeedRoles(db.DB); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	uploadPath := config.Get().Upload.Path
	checkSecurePath(uploadPath)
	if err := os.MkdirAll(uploadPath, 0755); err != nil {
		log.Fatalf("failed to create upload directory: %v", err)
	}

	avatarPath := config.Get().Upload.AvatarPath
	checkSecurePath(avatarPath)
	if err := os.MkdirAll(avatarPath, 0755); err != nil {
		log.Fatalf("failed to create avatar directory: %v", err)
	}

	gin.SetMode(config.Get().Server.Mode)

	r := gin.Default()
	router.InitRouter(r)

	r.Group(config.Get().Upload.URLPrefix, middleware.StaticCacheMiddleware()).
		StaticFS("", gin.Dir(uploadPath, false))
	r.Group(config.Get().Upload.AvatarURLPrefix, middleware.StaticCacheMiddleware()).
		StaticFS("", gin.Dir(avatarPath, false))

	srv := &http.Server{
		Addr:    ":" + config.Get().Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("%s %s listening on :%s", consts.ApplicationName, consts.ApplicationVersion, config.Get().Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	service.CloseRedisClient()
	log.Println("server stopped")
}

// checkSecurePath refuses static directories that would expose source or
// configuration files.
func checkSecurePath(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		log.Fatalf("failed to resolve path %q: %v", path, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	if absPath == cwd {
		log.Fatalf("static directory %q must not be the project root", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}

	allowedDirs := []string{"uploads", "public", "static", "tmp"}
	first := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(first, allowed) {
			return
		}
	}
	log.Fatalf("static directory %q must live under one of %v", path, allowedDirs)
}

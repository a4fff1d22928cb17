package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/civic-sense/civicsense-be/auth"
	"github.com/civic-sense/civicsense-be/config"
	"github.com/civic-sense/civicsense-be/controllers"
	"github.com/civic-sense/civicsense-be/middlewares"
	"github.com/civic-sense/civicsense-be/queue"
	"github.com/civic-sense/civicsense-be/routes"
	"github.com/civic-sense/civicsense-be/services"
	"github.com/civic-sense/civicsense-be/services/otp"
	"github.com/civic-sense/civicsense-be/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Please define the JWT_SECRET environment variable")
	}

	config.ConnectDB()

	issueStore := &store.MongoIssueStore{Collection: config.GetCollection("issues")}
	userStore := &store.MongoUserStore{Collection: config.GetCollection("users")}
	blogStore := &store.MongoBlogStore{Collection: config.GetCollection("blogs")}

	provider := auth.NewJWTProvider([]byte(jwtSecret), config.GetCollection("identities"))
	resolver := &auth.Resolver{Provider: provider, Users: userStore}

	aiServiceURL := os.Getenv("AI_SERVICE_URL")
	if aiServiceURL == "" {
		aiServiceURL = "http://localhost:8000"
	}
	classifier := services.NewClassifier(aiServiceURL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	images, err := services.NewImageStoreFromEnv(ctx)
	cancel()
	if err != nil {
		log.Printf("Image store unavailable, storing images inline: %v", err)
		images = nil
	}

	var publisher *queue.Publisher
	if amqpURI := os.Getenv("RABBITMQ_URL"); amqpURI != "" {
		conn, pub, err := queue.Connect(amqpURI)
		if err != nil {
			log.Printf("RabbitMQ unavailable, issue events disabled: %v", err)
		} else {
			defer conn.Close()
			publisher = pub
			log.Println("Connected to RabbitMQ")
		}
	}

	var limiter gin.HandlerFunc
	if os.Getenv("REDIS_ADDRESS") != "" {
		config.ConnectRedis()
		limiter = middlewares.IssueRateLimiter(20)
	}

	issueController := &controllers.IssueController{
		Issues:     issueStore,
		Classifier: classifier,
		Images:     images,
		Events:     publisher,
	}
	adminController := &controllers.AdminController{Users: userStore, Provider: provider}
	blogController := &controllers.BlogController{Blogs: blogStore}
	otpController := &controllers.OTPController{Store: otp.NewStore()}
	authController := &controllers.AuthController{Authenticator: provider}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Civic Sense Backend is running!")
	})
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now()})
	})

	routes.IssueRoutes(r, issueController, resolver, limiter)
	routes.AdminRoutes(r, adminController, resolver)
	routes.BlogRoutes(r, blogController, resolver)
	routes.OTPRoutes(r, otpController)
	routes.AuthRoutes(r, authController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

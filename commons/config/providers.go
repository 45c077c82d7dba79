package config

import (
	"context"
	"os"
	"time"

	"tubepilot/commons/routes"
	cache "tubepilot/internal/cache/iface"
	redisCache "tubepilot/internal/cache/redis"
	coordinator "tubepilot/internal/coordinator/iface"
	zkCoordinator "tubepilot/internal/coordinator/zk"
	"tubepilot/internal/logger"
	"tubepilot/internal/smm"
	"tubepilot/internal/textgen"
	"tubepilot/internal/youtube"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx/fxevent"
)

// envOr reads an environment variable with a fallback for local development
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ProvideLogger creates and configures the logger for the application
func ProvideLogger() (logger.Logger, error) {
	return logger.NewZapLoggerForDev()
}

// ProvideFxLogger creates the FX event logger using the application logger
func ProvideFxLogger(log logger.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{
		Logger: log.(*logger.ZapLogger).Logger(),
	}
}

// ProvideRouteDependencies creates route dependencies
func ProvideRouteDependencies(log logger.Logger) routes.RouteDependencies {
	return routes.RouteDependencies{
		Logger: log,
	}
}

// ProvideRouter creates and configures the Gin router with all routes
func ProvideRouter(
	config routes.RouterConfig,
	deps routes.RouteDependencies,
	routeInitializer func(*gin.Engine, routes.RouteDependencies),
) *gin.Engine {
	router := routes.NewRouter(config, deps)
	routeInitializer(router, deps)
	return router
}

func initializeSqsClient(endpoint, region string) (*sqs.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if endpoint != "" {
					return aws.Endpoint{
						URL:           endpoint,
						SigningRegion: region,
					}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			})),
	)
	if err != nil {
		return nil, err
	}

	return sqs.NewFromConfig(cfg), nil
}

// ProvideSQSClient provides an SQS client (for LocalStack or AWS)
func ProvideSQSClient() (*sqs.Client, error) {
	return initializeSqsClient(envOr("SQS_ENDPOINT", "http://localhost:4566"), envOr("AWS_REGION", "us-east-1"))
}

// ProvideTextGenerator provides a comment text generator (mock for development)
func ProvideTextGenerator(log logger.Logger) textgen.Generator {
	return textgen.NewMockGenerator(log)
}

// ProvideYouTubeClient provides the YouTube API adapter
func ProvideYouTubeClient(log logger.Logger) youtube.Client {
	return youtube.NewClient(youtube.Config{
		APIKey: os.Getenv("YOUTUBE_API_KEY"),
	}, log)
}

// ProvideSmmPanel provides the SMM panel adapter
func ProvideSmmPanel(log logger.Logger) smm.Panel {
	return smm.NewJapClient(envOr("SMM_PANEL_URL", ""), 30*time.Second, log)
}

// ProvideZooKeeperCoordinator provides a ZooKeeper coordinator for distributed coordination
func ProvideZooKeeperCoordinator(log logger.Logger) (coordinator.Coordinator, error) {
	servers := []string{envOr("ZK_SERVERS", "localhost:2181")}
	sessionTimeout := 60 * time.Second

	coord, err := zkCoordinator.NewZKCoordinator(servers, sessionTimeout, log)
	if err != nil {
		return nil, err
	}

	return coord, nil
}

// ProvideRedisCache provides a Redis cache client
func ProvideRedisCache(log logger.Logger) (cache.Cache, error) {
	addr := envOr("REDIS_ADDR", "localhost:6379")
	password := "" // No password for local development
	db := 0        // Default DB

	cache, err := redisCache.NewRedisCache(addr, password, db, log)
	if err != nil {
		return nil, err
	}

	return cache, nil
}

// ProvideDynamoDBClient provides DynamoDB client
func ProvideDynamoDBClient() (*awsdynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(envOr("AWS_REGION", "us-east-1")),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:           envOr("DYNAMODB_ENDPOINT", "http://localhost:9000"),
					SigningRegion: region,
				}, nil
			})),
	)
	if err != nil {
		return nil, err
	}

	return awsdynamodb.NewFromConfig(cfg), nil
}

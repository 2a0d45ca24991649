// Command lambda serves the same API behind AWS API Gateway.
package main

import (
	"context"

	_ "study-buddy/cmd/api/docs"
	"study-buddy/internal/app"
	"study-buddy/internal/config"
	"study-buddy/internal/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	fiberadapter "github.com/awslabs/aws-lambda-go-api-proxy/fiber"
	"go.uber.org/zap"
)

var fiberLambda *fiberadapter.FiberLambda

// Cold start: build the app once and reuse it across invocations.
func init() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}

	components, err := app.Build(cfg)
	if err != nil {
		logger.Get().Fatal("Failed to build application", zap.Error(err))
	}
	fiberLambda = fiberadapter.New(components.NewFiberApp(cfg.Server))
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return fiberLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}

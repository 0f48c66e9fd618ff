package services

import (
	"context"
	"errors"
	"os"
	"strings"

	"pushbridge/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

// PushGateway is the outbound surface to the push provider. The registry and
// dispatcher only talk to this interface, so tests swap in a fake.
type PushGateway interface {
	// CreateEndpoint registers a device token and returns the provider's
	// endpoint handle.
	CreateEndpoint(ctx context.Context, token, platform, appName string) (string, error)
	// EndpointEnabled reports whether the provider still considers the
	// endpoint deliverable.
	EndpointEnabled(ctx context.Context, endpoint string) (bool, error)
	DeleteEndpoint(ctx context.Context, endpoint string) error
	// Publish sends a pre-encoded JSON message to one endpoint.
	Publish(ctx context.Context, endpoint, message string) error
}

type SNSGateway struct {
	sns             *awssns.Client
	fcmPlatformArn  string
	apnsPlatformArn string
}

func NewSNSGateway() (*SNSGateway, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-south-1"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSGateway{
		sns:             awssns.NewFromConfig(cfg),
		fcmPlatformArn:  os.Getenv("SNS_FCM_ARN"),
		apnsPlatformArn: os.Getenv("SNS_APNS_ARN"),
	}, nil
}

func (g *SNSGateway) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case models.PlatformAndroid:
		if g.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return g.fcmPlatformArn, nil
	case models.PlatformIOS:
		// iOS tokens go through the APNS application when one is configured,
		// otherwise they ride the FCM application.
		if g.apnsPlatformArn != "" {
			return g.apnsPlatformArn, nil
		}
		if g.fcmPlatformArn == "" {
			return "", errors.New("neither SNS_APNS_ARN nor SNS_FCM_ARN set")
		}
		return g.fcmPlatformArn, nil
	default:
		return "", ErrBadPlatform
	}
}

func (g *SNSGateway) CreateEndpoint(ctx context.Context, token, platform, appName string) (string, error) {
	appArn, err := g.platformArn(platform)
	if err != nil {
		return "", err
	}

	in := &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	}
	if appName != "" {
		in.CustomUserData = aws.String(appName)
	}
	out, err := g.sns.CreatePlatformEndpoint(ctx, in)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.EndpointArn), nil
}

func (g *SNSGateway) EndpointEnabled(ctx context.Context, endpoint string) (bool, error) {
	out, err := g.sns.GetEndpointAttributes(ctx, &awssns.GetEndpointAttributesInput{
		EndpointArn: aws.String(endpoint),
	})
	if err != nil {
		return false, err
	}
	return strings.EqualFold(out.Attributes["Enabled"], "true"), nil
}

func (g *SNSGateway) DeleteEndpoint(ctx context.Context, endpoint string) error {
	_, err := g.sns.DeleteEndpoint(ctx, &awssns.DeleteEndpointInput{
		EndpointArn: aws.String(endpoint),
	})
	return err
}

func (g *SNSGateway) Publish(ctx context.Context, endpoint, message string) error {
	_, err := g.sns.Publish(ctx, &awssns.PublishInput{
		MessageStructure: aws.String("json"),
		Message:          aws.String(message),
		TargetArn:        aws.String(endpoint),
	})
	return err
}

// Package metrics - metrics/metrics.go
// file: metrics/metrics.go

package metrics

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"

	"hackathon-portal/logger"
)

// Namespace for all portal metrics
var metricsNamespace = "HackathonPortal"

// Reuse a single CloudWatch client for all metrics calls
var cwClient = cloudwatch.New(session.Must(session.NewSession()))

// PublishPaymentUploadBytes pushes the size of an uploaded payment screenshot
func PublishPaymentUploadBytes(size int64, env string) {
	putMetric("PaymentUploadBytes", float64(size), "Bytes", env)
}

// PublishPaymentStatusChange counts admin payment-status transitions
func PublishPaymentStatusChange(env string) {
	putMetric("PaymentStatusChanges", 1, "Count", env)
}

// PublishAdminFeedConnections pushes the current admin feed connection count
func PublishAdminFeedConnections(count int, env string) {
	putMetric("AdminFeedConnections", float64(count), "Count", env)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func putMetric(metricName string, value float64, unit string, env string) {
	_, err := cwClient.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricsNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("Environment"),
						Value: aws.String(env),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}

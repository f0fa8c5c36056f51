package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	appConfig "github.com/adarshh12/grocery-inventory/config"
	"github.com/adarshh12/grocery-inventory/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ReportArchiver stores a copy of a generated report and returns its key
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, report *models.Report) (string, error)
}

// s3PutObjectAPI is the slice of the S3 client the archiver needs
type s3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ReportArchiver writes reports as JSON objects to an S3 bucket
type S3ReportArchiver struct {
	client s3PutObjectAPI
	bucket string
}

var reportArchiverInstance ReportArchiver

// NewS3ReportArchiver builds an S3 client from the application configuration
func NewS3ReportArchiver(ctx context.Context, cfg *appConfig.Config) (*S3ReportArchiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3ReportArchiver{
		client: s3.NewFromConfig(awsConfig),
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// GetReportArchiver returns the process-wide archiver, nil when archiving is off
func GetReportArchiver() ReportArchiver {
	return reportArchiverInstance
}

// SetReportArchiver sets the process-wide archiver (also used by tests)
func SetReportArchiver(archiver ReportArchiver) {
	reportArchiverInstance = archiver
}

// ReportArchiveKey is the object key a report is stored under
func ReportArchiveKey(report *models.Report) string {
	return fmt.Sprintf("reports/%s/%d.json", report.ReportDate.Format(time.DateOnly), report.ID)
}

type archivedReport struct {
	ID          uint      `json:"id"`
	ReportDate  string    `json:"report_date"`
	TotalOrders int64     `json:"total_orders"`
	TotalSales  string    `json:"total_sales"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArchiveReport uploads the report as JSON
func (a *S3ReportArchiver) ArchiveReport(ctx context.Context, report *models.Report) (string, error) {
	body, err := encodeReport(report)
	if err != nil {
		return "", err
	}

	key := ReportArchiveKey(report)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to S3: %w", err)
	}

	return key, nil
}

func encodeReport(report *models.Report) ([]byte, error) {
	body, err := json.Marshal(archivedReport{
		ID:          report.ID,
		ReportDate:  report.ReportDate.Format(time.DateOnly),
		TotalOrders: report.TotalOrders,
		TotalSales:  report.TotalSales.StringFixed(2),
		CreatedAt:   report.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return body, nil
}

package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// S3Client is the subset of the S3 API the archiver needs.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	client S3Client
	bucket string
	now    func() time.Time
}

func NewS3Archiver(client S3Client, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, now: time.Now}
}

// NewS3Client builds a client from static credentials. Empty keys fall
// back to the SDK's anonymous credentials.
func NewS3Client(region, accessKeyID, secretAccessKey string) *s3.Client {
	opts := s3.Options{Region: region}
	if accessKeyID != "" && secretAccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		)
	}
	return s3.New(opts)
}

type archivedAppointment struct {
	Appointment *models.Appointment `json:"appointment"`
	ArchivedAt  time.Time           `json:"archived_at"`
}

// Archive writes the appointment with its line items and modification
// history, returning the s3:// location.
func (a *S3Archiver) Archive(ctx context.Context, ap *models.Appointment) (string, error) {
	if a == nil || a.client == nil || a.bucket == "" {
		return "", fmt.Errorf("archive: not configured")
	}

	now := a.now().UTC()
	body, err := json.Marshal(archivedAppointment{Appointment: ap, ArchivedAt: now})
	if err != nil {
		return "", fmt.Errorf("archive: marshal: %w", err)
	}

	key := fmt.Sprintf("appointments/%s/%s/%s.json", ap.ProviderID, ap.Date, ap.ID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"appointment_id": ap.ID.String(),
			"status":         ap.Status,
			"archived_at":    now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("archive: s3 upload: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	log.Info().
		Str("appointment_id", ap.ID.String()).
		Str("location", location).
		Int("modifications", len(ap.Modifications)).
		Msg("appointment archived")
	return location, nil
}

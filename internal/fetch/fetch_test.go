package fetch_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/internal/fetch"
	"github.com/leapstack-labs/regaudit/internal/testutil"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://registry/2023/assets.xlsx", "registry", "2023/assets.xlsx", false},
		{"S3://registry/assets.csv", "registry", "assets.csv", false},
		{"s3://registry", "", "", true},
		{"s3:///assets.csv", "", "", true},
		{"s3://registry/dir/", "", "", true},
		{"assets.xlsx", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			bucket, key, err := fetch.ParseURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, fetch.ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestFetch_Downloads(t *testing.T) {
	client := new(MockS3Client)
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return *in.Bucket == "registry" && *in.Key == "2023/assets.csv"
	}), mock.Anything).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader("Год\n2023\n")),
	}, nil)

	f := fetch.New(fetch.Config{}, fetch.WithS3Client(client), fetch.WithLogger(testutil.NewTestLogger(t)))
	dir := t.TempDir()

	got, err := f.Fetch(context.Background(), "s3://registry/2023/assets.csv", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "assets.csv"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "Год\n2023\n", string(data))
	client.AssertExpectations(t)
}

func TestFetch_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no such key", &types.NoSuchKey{}, fetch.ErrObjectNotFound},
		{"no such bucket", &types.NoSuchBucket{}, fetch.ErrBucketNotFound},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, fetch.ErrAccessDenied},
		{"throttled", &smithy.GenericAPIError{Code: "SlowDown"}, fetch.ErrServiceUnavailable},
		{"canceled", context.Canceled, fetch.ErrOperationCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockS3Client)
			client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := fetch.New(fetch.Config{}, fetch.WithS3Client(client)).
				Fetch(context.Background(), "s3://registry/assets.xlsx", t.TempDir())
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("unknown error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		client := new(MockS3Client)
		client.On("GetObject", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		_, err := fetch.New(fetch.Config{}, fetch.WithS3Client(client)).
			Fetch(context.Background(), "s3://registry/assets.xlsx", t.TempDir())
		assert.ErrorIs(t, err, boom)
	})
}

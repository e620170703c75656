package files

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"olttstats/internal/errors"
)

const (
	driveFolderMimeType = "application/vnd.google-apps.folder"
	driveItemFields     = "id, name, mimeType"
	driveListPageSize   = 1000
)

// DriveStore serves a Google Drive folder tree through the Drive v3 API.
// Every call waits on a rate limiter to stay under the per-user quota.
type DriveStore struct {
	service *drive.Service
	limiter *rate.Limiter
	logger  *slog.Logger
}

// DriveOptions configures NewDriveStore.
type DriveOptions struct {
	// CredentialsFile is a service account or authorized user JSON key.
	CredentialsFile string
	RPS             float64
	Burst           int
	// ClientOptions are appended after the credentials, mainly for tests.
	ClientOptions []option.ClientOption
	Logger        *slog.Logger
}

// NewDriveStore authenticates with the credentials file and builds the Drive
// client.
func NewDriveStore(ctx context.Context, opts DriveOptions) (*DriveStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, errors.NewAuthError("read credentials file", err).
				WithContext("path", opts.CredentialsFile)
		}
		clientOpts = append(clientOpts,
			option.WithCredentialsJSON(data),
			option.WithScopes(drive.DriveScope),
		)
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	service, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.NewAuthError("create drive service", err)
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	logger.InfoContext(ctx, "drive client authenticated",
		slog.Float64("rps", opts.RPS),
		slog.Int("burst", burst))

	return &DriveStore{
		service: service,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// Account returns the email address of the authenticated user.
func (s *DriveStore) Account(ctx context.Context) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	about, err := s.service.About.Get().Fields("user").Context(ctx).Do()
	if err != nil {
		return "", driveError("get account", "about", err)
	}
	if about.User == nil {
		return "", nil
	}
	if about.User.EmailAddress != "" {
		return about.User.EmailAddress, nil
	}
	return about.User.DisplayName, nil
}

// Folder fetches a folder's metadata.
func (s *DriveStore) Folder(ctx context.Context, id string) (Item, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Item{}, err
	}
	f, err := s.service.Files.Get(id).
		Fields(driveItemFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Item{}, driveError("get folder", id, err)
	}
	item := driveItem(f)
	if !item.IsFolder() {
		return Item{}, errors.NewInvalidArgumentError(fmt.Sprintf("drive item %s (%s) is not a folder", id, f.Name))
	}
	return item, nil
}

// ListChildren pages through the non-trashed children of a folder.
func (s *DriveStore) ListChildren(ctx context.Context, folderID string) ([]Item, error) {
	var items []Item
	call := s.service.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", escapeDriveQuery(folderID))).
		Fields(googleapi.Field("nextPageToken, files(" + driveItemFields + ")")).
		PageSize(driveListPageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)

	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Context(ctx).Do()
		if err != nil {
			return nil, driveError("list folder", folderID, err)
		}
		for _, f := range list.Files {
			items = append(items, driveItem(f))
		}
		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}

	s.logger.DebugContext(ctx, "listed drive folder",
		slog.String("folder_id", folderID),
		slog.Int("items", len(items)))
	return items, nil
}

// ReadFile downloads a file's content.
func (s *DriveStore) ReadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := s.service.Files.Get(fileID).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, driveError("download file", fileID, err)
	}
	return resp.Body, nil
}

// CreateFile uploads a new file into a folder.
func (s *DriveStore) CreateFile(ctx context.Context, folderID, name string, r io.Reader) (Item, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Item{}, err
	}
	f, err := s.service.Files.Create(&drive.File{Name: name, Parents: []string{folderID}}).
		Media(r).
		Fields(driveItemFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Item{}, driveError("upload file", name, err)
	}
	return driveItem(f), nil
}

// UpdateFile uploads a new revision of an existing file.
func (s *DriveStore) UpdateFile(ctx context.Context, fileID string, r io.Reader) (Item, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Item{}, err
	}
	f, err := s.service.Files.Update(fileID, &drive.File{}).
		Media(r).
		Fields(driveItemFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return Item{}, driveError("update file", fileID, err)
	}
	return driveItem(f), nil
}

func driveItem(f *drive.File) Item {
	kind := KindFile
	if f.MimeType == driveFolderMimeType {
		kind = KindFolder
	}
	return Item{ID: f.Id, Name: f.Name, Kind: kind}
}

// escapeDriveQuery escapes a value for use inside a single-quoted Drive
// query string.
func escapeDriveQuery(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}

func driveError(op, resource string, err error) error {
	var apiErr *googleapi.Error
	if stderrors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewAuthError(fmt.Sprintf("%s %s", op, resource), err).
				WithContext("status", apiErr.Code)
		case http.StatusNotFound:
			return notFoundError(op, resource, err)
		}
	}
	return errors.NewStorageError(fmt.Sprintf("%s %s", op, resource), err)
}

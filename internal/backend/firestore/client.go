// Package firestore implements the service.Service interface using the
// Firestore REST API.
package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	firestoreapi "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"dtask/internal/config"
	"dtask/internal/logging"
	"dtask/internal/service"
)

const (
	// PageSize is the number of documents fetched per list request.
	PageSize = 300

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Firestore document access.
	Scope = "https://www.googleapis.com/auth/datastore"
)

// Client implements service.Service on one Firestore collection.
type Client struct {
	docs       *firestoreapi.ProjectsDatabasesDocumentsService
	parent     string
	collection string
	logger     *log.Logger
}

// New creates a new Firestore client.
// Outside the emulator it requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id %w (set it in %s or DTASK_PROJECT_ID)", config.ErrNotConfigured, cfg.SettingsPath())
	}

	var opts []option.ClientOption
	if cfg.EmulatorHost != "" {
		opts = append(opts,
			option.WithEndpoint("http://"+cfg.EmulatorHost+"/"),
			option.WithoutAuthentication(),
		)
	} else {
		httpClient, err := oauthClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	svc, err := firestoreapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore service: %w", err)
	}
	return newClient(svc, cfg.ProjectID, cfg.DatabaseID, cfg.Collection, logger), nil
}

// oauthClient builds an auto-refreshing HTTP client from the stored login.
func oauthClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	return oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token)), nil
}

// NewWithOptions creates a client from explicit client options (for testing
// and custom endpoints).
func NewWithOptions(ctx context.Context, projectID, databaseID, collection string, opts ...option.ClientOption) (*Client, error) {
	svc, err := firestoreapi.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(svc, projectID, databaseID, collection, nil), nil
}

func newClient(svc *firestoreapi.Service, projectID, databaseID, collection string, logger *log.Logger) *Client {
	if databaseID == "" {
		databaseID = config.DefaultDatabaseID
	}
	if collection == "" {
		collection = config.DefaultCollection
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		docs:       svc.Projects.Databases.Documents,
		parent:     fmt.Sprintf("projects/%s/databases/%s/documents", projectID, databaseID),
		collection: collection,
		logger:     logger,
	}
}

// documentName returns the full resource name of the document with the given id.
func (c *Client) documentName(id string) string {
	return path.Join(c.parent, c.collection, id)
}

// ListTasks returns every task document in the collection, in store order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.Task
	err := c.docs.List(c.parent, c.collection).PageSize(PageSize).Pages(ctx, func(resp *firestoreapi.ListDocumentsResponse) error {
		for _, doc := range resp.Documents {
			result = append(result, decodeTask(doc))
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	c.logger.Debug("firestore list", "collection", c.collection, "count", len(result))
	return result, nil
}

// CreateTask creates a document with a store-generated id.
func (c *Client) CreateTask(ctx context.Context, fields service.TaskFields) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.docs.CreateDocument(c.parent, c.collection, taskDocument(fields)).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	id := path.Base(created.Name)
	c.logger.Debug("firestore create", "id", id)
	return id, nil
}

// UpdateTask patches only the fields set in patch. The document must exist.
func (c *Client) UpdateTask(ctx context.Context, id string, patch service.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	doc := patchDocument(patch)
	paths := maskPaths(doc)
	_, err := c.docs.Patch(c.documentName(id), doc).
		UpdateMaskFieldPaths(paths...).
		CurrentDocumentExists(true).
		Context(ctx).
		Do()
	if err != nil {
		return wrapError(err)
	}
	c.logger.Debug("firestore patch", "id", id, "fields", paths)
	return nil
}

// DeleteTask deletes a task document. Deleting a missing document succeeds.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.docs.Delete(c.documentName(id)).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	c.logger.Debug("firestore delete", "id", id)
	return nil
}

// wrapError maps API errors onto the service sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return service.ErrAuth
		case http.StatusNotFound:
			return service.ErrNotFound
		}
	}

	return err
}

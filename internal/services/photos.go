// Photos API implementation of [Library]
//
// API response types based on https://developers.google.com/photos/library/reference/rest
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/picshuttle/picshuttle/internal/models"
	"github.com/picshuttle/picshuttle/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	photosAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	photosTokenURL = "https://oauth2.googleapis.com/token"
	photosBaseURL  = "https://photoslibrary.googleapis.com/v1"
	photosScope    = "https://www.googleapis.com/auth/photoslibrary.readonly"
)

// photosMediaMetadata carries the dimensions and capture time of an item.
// The API serializes the pixel counts as strings.
type photosMediaMetadata struct {
	CreationTime string `json:"creationTime"`
	Width        string `json:"width"`
	Height       string `json:"height"`
}

// PhotosMediaItem represents a media item resource.
type PhotosMediaItem struct {
	ID            string              `json:"id"`
	BaseURL       string              `json:"baseUrl"`
	MimeType      string              `json:"mimeType"`
	Description   string              `json:"description"`
	Filename      string              `json:"filename"`
	ProductURL    string              `json:"productUrl"`
	MediaMetadata photosMediaMetadata `json:"mediaMetadata"`
}

// PhotosAlbum represents a shared album resource.
type PhotosAlbum struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	CoverPhotoBaseURL string `json:"coverPhotoBaseUrl"`
	MediaItemsCount   string `json:"mediaItemsCount"`
}

type photosDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type photosDateRange struct {
	StartDate photosDate `json:"startDate"`
	EndDate   photosDate `json:"endDate"`
}

type photosDateFilter struct {
	Dates  []photosDate      `json:"dates,omitempty"`
	Ranges []photosDateRange `json:"ranges,omitempty"`
}

type photosFilters struct {
	DateFilter *photosDateFilter `json:"dateFilter,omitempty"`
}

type photosSearchRequest struct {
	AlbumID   string         `json:"albumId,omitempty"`
	PageSize  int            `json:"pageSize,omitempty"`
	PageToken string         `json:"pageToken,omitempty"`
	Filters   *photosFilters `json:"filters,omitempty"`
}

type photosSearchResponse struct {
	MediaItems    []PhotosMediaItem `json:"mediaItems"`
	NextPageToken string            `json:"nextPageToken"`
}

type photosAlbumsResponse struct {
	SharedAlbums  []PhotosAlbum `json:"sharedAlbums"`
	NextPageToken string        `json:"nextPageToken"`
}

// LibraryConnector builds authenticated [Library] clients per account. Every
// pipeline run connects with the acting account's stored token, so background
// tasks submitted by different accounts never share client state.
type LibraryConnector struct {
	config  *oauth2.Config
	limiter *rate.Limiter
	baseURL string
}

// NewLibraryConnector creates a connector with the given OAuth2 credentials.
// requestsPerSecond caps the outbound request rate shared across all clients
// the connector produces.
func NewLibraryConnector(credentials map[string]string, requestsPerSecond float64) (*LibraryConnector, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{photosScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  photosAuthURL,
			TokenURL: photosTokenURL,
		},
	}

	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}

	return &LibraryConnector{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		baseURL: photosBaseURL,
	}, nil
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (c *LibraryConnector) AuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token.
func (c *LibraryConnector) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return token, nil
}

// Connect builds a [Library] client authenticated as the given account.
// Returns [shared.ErrNotConnected] when the account holds no token.
func (c *LibraryConnector) Connect(ctx context.Context, account *models.Account) (Library, error) {
	if !account.Connected() {
		return nil, fmt.Errorf("%w: account %s", shared.ErrNotConnected, account.Username())
	}

	token := &oauth2.Token{
		AccessToken:  account.AccessToken(),
		RefreshToken: account.RefreshToken(),
		Expiry:       account.TokenExpiry(),
	}

	return &PhotosService{
		httpClient: c.config.Client(ctx, token),
		limiter:    c.limiter,
		baseURL:    c.baseURL,
	}, nil
}

// PhotosService implements the Library interface for the Photos API.
// The [oauth2] client refreshes expired tokens transparently; the limiter
// keeps request bursts under the provider quota.
type PhotosService struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

func (s *PhotosService) Name() string {
	return "Photos"
}

// doRequest performs a rate-limited HTTP request against the Photos API.
func (s *PhotosService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRemoteFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: status 404", shared.ErrItemNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrRemoteFetch, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchMedia lists media items matching the query's date filters.
func (s *PhotosService) SearchMedia(ctx context.Context, query models.SearchQuery) (*models.MediaPage, error) {
	request := photosSearchRequest{
		PageSize:  query.PageSize,
		PageToken: query.PageToken,
	}

	if !query.Filters.Empty() {
		filter, err := buildDateFilter(query.Filters)
		if err != nil {
			return nil, err
		}
		request.Filters = &photosFilters{DateFilter: filter}
	}

	var response photosSearchResponse
	if err := s.doRequest(ctx, "POST", "/mediaItems:search", request, &response); err != nil {
		return nil, err
	}

	return toMediaPage(response), nil
}

// ListAlbums retrieves the shared albums visible to the account.
func (s *PhotosService) ListAlbums(ctx context.Context, pageSize int, pageToken string) (*models.AlbumPage, error) {
	endpoint := fmt.Sprintf("/sharedAlbums?pageSize=%d", pageSize)
	if pageToken != "" {
		endpoint += "&pageToken=" + pageToken
	}

	var response photosAlbumsResponse
	if err := s.doRequest(ctx, "GET", endpoint, nil, &response); err != nil {
		return nil, err
	}

	page := &models.AlbumPage{NextPageToken: response.NextPageToken}
	for _, album := range response.SharedAlbums {
		page.Albums = append(page.Albums, toAlbum(album))
	}

	return page, nil
}

// AlbumMedia lists the media items belonging to an album.
func (s *PhotosService) AlbumMedia(ctx context.Context, albumID string, pageSize int, pageToken string) (*models.MediaPage, error) {
	if albumID == "" {
		return nil, fmt.Errorf("%w: album id is required", shared.ErrInvalidArgument)
	}

	request := photosSearchRequest{
		AlbumID:   albumID,
		PageSize:  pageSize,
		PageToken: pageToken,
	}

	var response photosSearchResponse
	if err := s.doRequest(ctx, "POST", "/mediaItems:search", request, &response); err != nil {
		return nil, err
	}

	return toMediaPage(response), nil
}

// MediaItem retrieves a single media item by its remote id.
func (s *PhotosService) MediaItem(ctx context.Context, id string) (*models.MediaItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: media id is required", shared.ErrInvalidArgument)
	}

	var wire PhotosMediaItem
	if err := s.doRequest(ctx, "GET", "/mediaItems/"+id, nil, &wire); err != nil {
		return nil, err
	}

	item := toMediaItem(wire)
	return &item, nil
}

// buildDateFilter maps the date constraints onto the API's filter shape.
func buildDateFilter(filters models.SearchFilters) (*photosDateFilter, error) {
	if filters.IsRange {
		start, err := parseFilterDate(filters.DateFrom)
		if err != nil {
			return nil, err
		}
		end, err := parseFilterDate(filters.DateTo)
		if err != nil {
			return nil, err
		}
		return &photosDateFilter{Ranges: []photosDateRange{{StartDate: start, EndDate: end}}}, nil
	}

	dates := filters.DateList
	if len(dates) == 0 && filters.DateFrom != "" {
		dates = []string{filters.DateFrom}
	}

	filter := &photosDateFilter{}
	for _, d := range dates {
		date, err := parseFilterDate(d)
		if err != nil {
			return nil, err
		}
		filter.Dates = append(filter.Dates, date)
	}

	return filter, nil
}

// parseFilterDate parses a YYYY-MM-DD date into the API's date object.
func parseFilterDate(value string) (photosDate, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 3 {
		return photosDate{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", shared.ErrInvalidArgument, value)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return photosDate{}, fmt.Errorf("%w: invalid year in %q", shared.ErrInvalidArgument, value)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return photosDate{}, fmt.Errorf("%w: invalid month in %q", shared.ErrInvalidArgument, value)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return photosDate{}, fmt.Errorf("%w: invalid day in %q", shared.ErrInvalidArgument, value)
	}

	return photosDate{Year: year, Month: month, Day: day}, nil
}

func toMediaPage(response photosSearchResponse) *models.MediaPage {
	page := &models.MediaPage{NextPageToken: response.NextPageToken}
	for _, item := range response.MediaItems {
		page.Items = append(page.Items, toMediaItem(item))
	}
	return page
}

func toMediaItem(wire PhotosMediaItem) models.MediaItem {
	width, _ := strconv.Atoi(wire.MediaMetadata.Width)
	height, _ := strconv.Atoi(wire.MediaMetadata.Height)
	creationTime, _ := time.Parse(time.RFC3339, wire.MediaMetadata.CreationTime)

	return models.MediaItem{
		ID:           wire.ID,
		BaseURL:      wire.BaseURL,
		MimeType:     wire.MimeType,
		Width:        width,
		Height:       height,
		CreationTime: creationTime,
		Description:  wire.Description,
		Filename:     wire.Filename,
		ProductURL:   wire.ProductURL,
	}
}

func toAlbum(wire PhotosAlbum) models.Album {
	count, _ := strconv.Atoi(wire.MediaItemsCount)

	return models.Album{
		ID:        wire.ID,
		Title:     wire.Title,
		CoverURL:  wire.CoverPhotoBaseURL,
		ItemCount: count,
	}
}

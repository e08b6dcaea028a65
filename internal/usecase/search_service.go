package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dealscout/backend/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	flightPlaceholder = "Flight search is coming soon! Flight scrapers are ready but need more testing."
	hotelPlaceholder  = "Hotel search is coming soon! Hotel scrapers are ready but need more testing."
)

var (
	flightRequired = []string{"from", "to", "departDate"}
	hotelRequired  = []string{"location", "checkIn", "checkOut"}

	flightFormFields = []domain.FormField{
		{Name: "from", Label: "From City", Type: "text", Required: true, Placeholder: "Delhi"},
		{Name: "to", Label: "To City", Type: "text", Required: true, Placeholder: "Mumbai"},
		{Name: "departDate", Label: "Departure Date", Type: "date", Required: true},
		{Name: "returnDate", Label: "Return Date (Optional)", Type: "date"},
		{Name: "passengers", Label: "Passengers", Type: "number", Default: 1},
		{Name: "class", Label: "Class", Type: "select", Options: []string{"Economy", "Business", "First"}, Default: "Economy"},
	}

	hotelFormFields = []domain.FormField{
		{Name: "location", Label: "Location/City", Type: "text", Required: true, Placeholder: "Goa"},
		{Name: "checkIn", Label: "Check-in Date", Type: "date", Required: true},
		{Name: "checkOut", Label: "Check-out Date", Type: "date", Required: true},
		{Name: "guests", Label: "Number of Guests", Type: "number", Default: 2},
		{Name: "rooms", Label: "Number of Rooms", Type: "number", Default: 1},
	}
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	LogTimeout time.Duration
}

// SearchService runs the query pipeline: classify, then aggregate offers
// or ask the caller for missing travel details.
type SearchService struct {
	classifier *Classifier
	aggregator *Aggregator
	logs       domain.SearchLogRepository
	logTimeout time.Duration
	pending    sync.WaitGroup
	now        func() time.Time
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	classifier *Classifier,
	aggregator *Aggregator,
	logs domain.SearchLogRepository,
	config SearchServiceConfig,
) *SearchService {
	logTimeout := config.LogTimeout
	if logTimeout == 0 {
		logTimeout = 5 * time.Second
	}

	return &SearchService{
		classifier: classifier,
		aggregator: aggregator,
		logs:       logs,
		logTimeout: logTimeout,
		now:        time.Now,
	}
}

// Search classifies the request and dispatches it to its vertical.
// An ECOMMERCE query with no listings from any source returns
// domain.ErrAggregationEmpty alongside the per-source reports.
func (s *SearchService) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	query := strings.TrimSpace(req.Query)

	classification := s.classifier.Classify(query)
	zap.L().Info("query classified",
		zap.String("query", query),
		zap.String("vertical", string(classification.Vertical)),
		zap.Float64("confidence", classification.Confidence),
	)

	resp := &domain.SearchResponse{Classification: classification}

	switch classification.Vertical {
	case domain.VerticalFlight:
		s.travelResponse(resp, flightRequired, "Please provide flight details", flightFormFields, flightPlaceholder)
		return resp, nil
	case domain.VerticalHotel:
		s.travelResponse(resp, hotelRequired, "Please provide hotel booking details", hotelFormFields, hotelPlaceholder)
		return resp, nil
	case domain.VerticalEcommerce:
	default:
		return nil, domain.ErrUnsupportedVertical
	}

	summary, reports, err := s.aggregator.Aggregate(ctx, query)
	resp.Sources = reports

	entry := domain.SearchLogEntry{
		Query:    query,
		UserID:   req.UserID,
		Vertical: classification.Vertical,
	}
	if summary != nil {
		entry.ResultCount = summary.TotalResults
		if summary.BestDeal != nil {
			best := summary.BestDeal.FinalPrice
			entry.BestPrice = &best
		}
	}
	s.logSearch(entry)

	if err != nil {
		return resp, err
	}

	resp.Comparison = summary
	return resp, nil
}

// travelResponse fills either a clarification or the not-yet-available placeholder
func (s *SearchService) travelResponse(resp *domain.SearchResponse, required []string, message string, fields []domain.FormField, placeholder string) {
	params := resp.Classification.ExtractedParams
	if params == nil {
		params = map[string]any{}
	}

	var missing []string
	for _, name := range required {
		if v, ok := params[name]; !ok || v == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		resp.Clarification = &domain.Clarification{
			RequiresInput:   true,
			Vertical:        resp.Classification.Vertical,
			Message:         message,
			MissingParams:   missing,
			ExtractedParams: params,
			FormFields:      fields,
		}
		return
	}

	resp.Placeholder = placeholder
}

// Track records a user interaction with a listing. Only validation errors
// are returned; persisting the interaction happens in the background.
func (s *SearchService) Track(req *domain.TrackRequest) error {
	if req == nil || strings.TrimSpace(req.ProductName) == "" || strings.TrimSpace(req.Vendor) == "" || req.Price < 0 {
		return domain.ErrInvalidRequest
	}

	action := strings.ToUpper(strings.TrimSpace(req.Action))
	if action == "" {
		action = domain.DefaultInteractionAction
	}

	entry := domain.InteractionEntry{
		ID:          uuid.NewString(),
		UserID:      anonymize(req.UserID),
		ProductName: strings.TrimSpace(req.ProductName),
		Vendor:      strings.TrimSpace(req.Vendor),
		Price:       req.Price,
		Action:      action,
		CreatedAt:   s.now(),
	}

	s.background(func(ctx context.Context) error {
		return s.logs.TrackInteraction(ctx, entry)
	}, zap.String("interaction", entry.Summary()))
	return nil
}

func (s *SearchService) logSearch(entry domain.SearchLogEntry) {
	entry.ID = uuid.NewString()
	entry.UserID = anonymize(entry.UserID)
	entry.CreatedAt = s.now()

	s.background(func(ctx context.Context) error {
		return s.logs.LogSearch(ctx, entry)
	}, zap.String("query", entry.Query))
}

// background runs a log write detached from the request. Failures are
// logged and dropped.
func (s *SearchService) background(write func(ctx context.Context) error, fields ...zap.Field) {
	if s.logs == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.logTimeout)
		defer cancel()

		if err := write(ctx); err != nil {
			zap.L().Error("failed to write search log", append(fields, zap.Error(err))...)
		}
	}()
}

// Wait blocks until background log writes have finished
func (s *SearchService) Wait() {
	s.pending.Wait()
}

func anonymize(userID string) string {
	if domain.IsAnonymousUser(strings.TrimSpace(userID)) {
		return ""
	}
	return strings.TrimSpace(userID)
}

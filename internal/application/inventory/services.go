package inventory

import (
	"context"
	"strings"

	"github.com/easm/dashboard/internal/domain/identity"
	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/domain/shared"
	"github.com/easm/dashboard/internal/infrastructure/cache"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// SearchService runs asset searches.
type SearchService struct {
	client SearchAPI
}

// NewSearchService creates a search service.
func NewSearchService(client SearchAPI) *SearchService {
	return &SearchService{client: client}
}

// Search runs query. Blank queries are rejected without a call.
func (s *SearchService) Search(ctx context.Context, query string) (*inventory.SearchResults, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Search query must not be empty")
	}
	return s.client.Search(ctx, query)
}

// DetailService loads single assets, cached per "{type}-{id}".
type DetailService struct {
	client DetailAPI
	cache  *cache.TtlCache[string, *inventory.Asset]
}

// NewDetailService creates a detail service.
func NewDetailService(client DetailAPI, c *cache.TtlCache[string, *inventory.Asset]) *DetailService {
	if c == nil {
		c = cache.New[string, *inventory.Asset]("asset_detail")
	}
	return &DetailService{client: client, cache: c}
}

// Get returns one asset.
func (s *DetailService) Get(ctx context.Context, assetType inventory.AssetType, id string) (*inventory.Asset, error) {
	if !assetType.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Asset type must be domain or ip")
	}
	if strings.TrimSpace(id) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Asset id is required")
	}

	key := string(assetType) + "-" + id
	if asset, ok := s.cache.Get(key); ok {
		return asset, nil
	}
	asset, err := s.client.AssetDetail(ctx, assetType, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, asset)
	return asset, nil
}

// NetworkService loads relationship graphs.
type NetworkService struct {
	client NetworkAPI
}

// NewNetworkService creates a network service.
func NewNetworkService(client NetworkAPI) *NetworkService {
	return &NetworkService{client: client}
}

// Graph returns the organization graph, or the graph around assetID.
func (s *NetworkService) Graph(ctx context.Context, assetID string) (*inventory.NetworkGraph, error) {
	return s.client.Network(ctx, strings.TrimSpace(assetID))
}

// Invalidator is told when organization changes make cached stats stale.
type Invalidator interface {
	Invalidate()
}

// OrganizationService reads and edits the organization. Every successful
// change invalidates the shared stats.
type OrganizationService struct {
	client   OrganizationAPI
	stats    Invalidator
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrganizationService creates an organization service.
func NewOrganizationService(client OrganizationAPI, stats Invalidator, logger *zap.Logger) *OrganizationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationService{
		client:   client,
		stats:    stats,
		validate: validator.New(),
		logger:   logger,
	}
}

// Get returns the organization.
func (s *OrganizationService) Get(ctx context.Context) (*identity.Organization, error) {
	return s.client.Organization(ctx)
}

// Update changes the organization name or scan settings.
func (s *OrganizationService) Update(ctx context.Context, update inventory.OrganizationUpdate) (*inventory.OrganizationUpdated, error) {
	if err := s.validate.Struct(update); err != nil {
		return nil, shared.ErrInvalidInput.WithMessage(err.Error())
	}
	resp, err := s.client.UpdateOrganization(ctx, update)
	if err != nil {
		return nil, err
	}
	s.changed("update")
	return resp, nil
}

// AddApexDomain adds a domain to the organization scope.
func (s *OrganizationService) AddApexDomain(ctx context.Context, domain string) (*inventory.ApexDomainChange, error) {
	domain, err := s.normalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.AddApexDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	s.changed("add_apex_domain")
	return resp, nil
}

// RemoveApexDomain removes a domain from the organization scope.
func (s *OrganizationService) RemoveApexDomain(ctx context.Context, domain string) (*inventory.ApexDomainChange, error) {
	domain, err := s.normalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.RemoveApexDomain(ctx, domain)
	if err != nil {
		return nil, err
	}
	s.changed("remove_apex_domain")
	return resp, nil
}

func (s *OrganizationService) normalizeDomain(domain string) (string, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if err := s.validate.Var(domain, "required,fqdn"); err != nil {
		return "", shared.ErrInvalidInput.WithMessage("A valid apex domain is required")
	}
	return domain, nil
}

func (s *OrganizationService) changed(op string) {
	s.logger.Info("Organization changed, invalidating stats", zap.String("operation", op))
	if s.stats != nil {
		s.stats.Invalidate()
	}
}

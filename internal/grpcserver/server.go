package grpcserver

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fontpair/internal/fonts"
	"fontpair/internal/pairing"
	"fontpair/pkg/models"
)

// FontStore is the read side of the font catalog the service needs.
type FontStore interface {
	Count(ctx context.Context, q fonts.ListQuery) (int, error)
	CountAll(ctx context.Context) (int, error)
	List(ctx context.Context, q fonts.ListQuery) ([]models.Font, error)
	GetByFamily(ctx context.Context, family string) (*models.Font, error)
	AllFonts(ctx context.Context) ([]models.FontRecord, error)
}

type Server struct {
	Fonts    FontStore
	Selector *pairing.Selector
}

var _ CatalogServer = (*Server)(nil)

func NewServer(store FontStore, sel *pairing.Selector) *Server {
	if sel == nil {
		sel = pairing.NewDefaultSelector()
	}
	return &Server{Fonts: store, Selector: sel}
}

func (s *Server) ListFonts(ctx context.Context, req *ListFontsRequest) (*ListFontsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	query := fonts.ListQuery{
		Q:       strings.TrimSpace(req.Q),
		Foundry: strings.TrimSpace(req.Foundry),
		Sort:    strings.ToLower(strings.TrimSpace(req.Sort)),
		Limit:   req.Limit,
		Offset:  max(req.Offset, 0),
	}
	if req.Category != "" {
		cat, err := models.ParseCategory(req.Category)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		query.Category = cat
	}
	if !fonts.ValidSort(query.Sort) {
		return nil, status.Error(codes.InvalidArgument, "invalid sort")
	}

	total, err := s.Fonts.CountAll(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "count failed")
	}
	filtered, err := s.Fonts.Count(ctx, query)
	if err != nil {
		return nil, status.Error(codes.Internal, "count failed")
	}
	items, err := s.Fonts.List(ctx, query)
	if err != nil {
		return nil, status.Error(codes.Internal, "list failed")
	}

	return &ListFontsResponse{
		Total:    total,
		Filtered: filtered,
		Limit:    req.Limit,
		Offset:   query.Offset,
		Items:    items,
	}, nil
}

func (s *Server) GetFont(ctx context.Context, req *GetFontRequest) (*GetFontResponse, error) {
	if req == nil || strings.TrimSpace(req.Family) == "" {
		return nil, status.Error(codes.InvalidArgument, "family required")
	}

	f, err := s.Fonts.GetByFamily(ctx, strings.TrimSpace(req.Family))
	if err != nil {
		return nil, status.Error(codes.Internal, "get failed")
	}
	if f == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return &GetFontResponse{Font: *f}, nil
}

func (s *Server) RandomPair(ctx context.Context, _ *RandomPairRequest) (*PairResponse, error) {
	recs, err := s.Fonts.AllFonts(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "load catalog failed")
	}
	p, err := s.Selector.SelectRandomPair(recs)
	if err != nil {
		return nil, engineStatus(err)
	}
	return &PairResponse{Header: p.Header, Body: p.Body, Score: pairing.Score(p.Header, p.Body)}, nil
}

func (s *Server) Complement(ctx context.Context, req *ComplementRequest) (*PairResponse, error) {
	if req == nil || strings.TrimSpace(req.Family) == "" {
		return nil, status.Error(codes.InvalidArgument, "family required")
	}
	role := models.RoleHeader
	if req.LockedRole != "" {
		r, err := models.ParseRole(req.LockedRole)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		role = r
	}

	recs, err := s.Fonts.AllFonts(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "load catalog failed")
	}
	var locked *models.FontRecord
	for i := range recs {
		if recs[i].Family == req.Family {
			locked = &recs[i]
			break
		}
	}
	if locked == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}

	partner, err := s.Selector.SelectComplementary(*locked, recs, role)
	if err != nil {
		return nil, engineStatus(err)
	}
	resp := &PairResponse{Header: *locked, Body: partner}
	if role == models.RoleBody {
		resp.Header, resp.Body = partner, *locked
	}
	resp.Score = pairing.Score(resp.Header, resp.Body)
	return resp, nil
}

func engineStatus(err error) error {
	if errors.Is(err, pairing.ErrEmptyCatalog) || errors.Is(err, pairing.ErrNoCandidateAvailable) {
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

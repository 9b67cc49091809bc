package grpcserver

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"fontpair/internal/fonts"
	"fontpair/internal/pairing"
	"fontpair/pkg/database"
	"fontpair/pkg/models"
)

type firstRand struct{}

func (firstRand) IntN(int) int { return 0 }

func rec(family string, c models.Category, l models.Legibility) models.Font {
	return models.Font{FontRecord: models.FontRecord{Family: family, Category: c, Weights: []int{400}, Foundry: "Test Foundry", Legibility: l}}
}

func newClient(t *testing.T, catalog ...models.Font) *Client {
	t.Helper()
	db, err := database.OpenAndMigrate(database.Config{Path: filepath.Join(t.TempDir(), "grpc.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := fonts.NewRepo(db)
	if len(catalog) > 0 {
		require.NoError(t, repo.Upsert(context.Background(), catalog))
	}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterCatalogServer(srv, NewServer(repo, pairing.NewSelector(firstRand{})))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func threeFonts() []models.Font {
	return []models.Font{
		rec("Lora", models.CategorySerif, models.LegibilityHigh),
		rec("Oswald", models.CategorySansSerif, models.LegibilityMedium),
		rec("Roboto", models.CategorySansSerif, models.LegibilityHigh),
	}
}

func TestListAndGet(t *testing.T) {
	c := newClient(t, threeFonts()...)
	ctx := context.Background()

	list, err := c.ListFonts(ctx, &ListFontsRequest{Category: "Sans Serif"})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 2, list.Filtered)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Oswald", list.Items[0].Family)
	assert.Equal(t, "test-foundry", list.Items[0].FoundrySlug)

	got, err := c.GetFont(ctx, &GetFontRequest{Family: "Lora"})
	require.NoError(t, err)
	assert.Equal(t, models.CategorySerif, got.Font.Category)

	_, err = c.GetFont(ctx, &GetFontRequest{Family: "Nope"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.ListFonts(ctx, &ListFontsRequest{Sort: "random"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPairs(t *testing.T) {
	c := newClient(t, threeFonts()...)
	ctx := context.Background()

	p, err := c.RandomPair(ctx, &RandomPairRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Lora", p.Header.Family)
	assert.Equal(t, "Roboto", p.Body.Family)
	assert.Equal(t, 95, p.Score)

	p, err = c.Complement(ctx, &ComplementRequest{Family: "Oswald"})
	require.NoError(t, err)
	assert.Equal(t, "Oswald", p.Header.Family)
	assert.Equal(t, "Lora", p.Body.Family)

	p, err = c.Complement(ctx, &ComplementRequest{Family: "Lora", LockedRole: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Lora", p.Body.Family)
	assert.NotEqual(t, "Lora", p.Header.Family)

	_, err = c.Complement(ctx, &ComplementRequest{Family: "Lora", LockedRole: "footer"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestEngineErrorsAreFailedPrecondition(t *testing.T) {
	c := newClient(t)
	_, err := c.RandomPair(context.Background(), &RandomPairRequest{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	solo := newClient(t, rec("Lora", models.CategorySerif, models.LegibilityHigh))
	_, err = solo.Complement(context.Background(), &ComplementRequest{Family: "Lora"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

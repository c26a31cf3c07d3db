package qdrant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/autoweave/mem0-bridge/internal/config"
	"github.com/autoweave/mem0-bridge/internal/model"
	registryvector "github.com/autoweave/mem0-bridge/internal/registry/vector"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// listPageSize is the scroll page size used when listing a user's memories.
const listPageSize = 256

func init() {
	registryvector.Register(registryvector.Plugin{
		Name:   "qdrant",
		Loader: load,
	})
}

func load(ctx context.Context) (registryvector.VectorStore, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("qdrant: missing config in context")
	}
	conn, err := grpc.NewClient(cfg.QdrantAddress(), dialOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect: %w", err)
	}
	return &Store{
		points:         pb.NewPointsClient(conn),
		collections:    pb.NewCollectionsClient(conn),
		conn:           conn,
		collectionName: cfg.QdrantCollectionName,
		dimension:      effectiveEmbeddingDimension(cfg),
		startupTimeout: cfg.QdrantStartupTimeout,
	}, nil
}

// Store keeps memory records as Qdrant points: the embedding as the point
// vector and the record fields as the point payload.
type Store struct {
	points         pb.PointsClient
	collections    pb.CollectionsClient
	conn           *grpc.ClientConn
	collectionName string
	dimension      uint64
	startupTimeout time.Duration
}

func (s *Store) Name() string { return "qdrant" }

// Migrate creates the collection with cosine distance when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	migrateCtx, cancel := context.WithTimeout(ctx, s.startupTimeout)
	defer cancel()

	_, err := s.collections.Get(migrateCtx, &pb.GetCollectionInfoRequest{CollectionName: s.collectionName})
	if err == nil {
		return nil // collection exists
	}

	_, err = s.collections.Create(migrateCtx, &pb.CreateCollection{
		CollectionName: s.collectionName,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     s.dimension,
					Distance: pb.Distance_Cosine,
				},
			},
		},
		HnswConfig: &pb.HnswConfigDiff{
			M:                 newUint64(16),
			EfConstruct:       newUint64(64),
			FullScanThreshold: newUint64(10000),
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection: %w", err)
	}
	log.Info("Created Qdrant collection", "name", s.collectionName, "dimension", s.dimension)
	return nil
}

// Ping lists collections as a cheap connectivity check.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.collections.List(ctx, &pb.ListCollectionsRequest{}); err != nil {
		return fmt.Errorf("qdrant: ping: %w", err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, reqs []registryvector.UpsertRequest) error {
	points := make([]*pb.PointStruct, len(reqs))
	for i, r := range reqs {
		points[i] = &pb.PointStruct{
			Id: pointID(r.Record.ID),
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: r.Embedding},
				},
			},
			Payload: payloadFromRecord(r.Record),
		}
	}
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, embedding []float32, userID string, limit int) ([]model.Record, error) {
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collectionName,
		Vector:         embedding,
		Limit:          uint64(limit),
		WithPayload:    withPayload(),
		Filter:         userFilter(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: search: %w", err)
	}

	var records []model.Record
	for _, pt := range resp.GetResult() {
		rec := recordFromPayload(pointIDString(pt.GetId()), pt.GetPayload())
		rec.Score = float64(pt.GetScore())
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) List(ctx context.Context, userID string) ([]model.Record, error) {
	var records []model.Record
	var offset *pb.PointId
	for {
		resp, err := s.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: s.collectionName,
			Filter:         userFilter(userID),
			Limit:          newUint32(listPageSize),
			Offset:         offset,
			WithPayload:    withPayload(),
		})
		if err != nil {
			return nil, fmt.Errorf("qdrant: scroll: %w", err)
		}
		for _, pt := range resp.GetResult() {
			records = append(records, recordFromPayload(pointIDString(pt.GetId()), pt.GetPayload()))
		}
		offset = resp.GetNextPageOffset()
		if offset == nil || offset.GetPointIdOptions() == nil {
			return records, nil
		}
	}
}

func (s *Store) Get(ctx context.Context, id string) (model.Record, error) {
	resp, err := s.points.Get(ctx, &pb.GetPoints{
		CollectionName: s.collectionName,
		Ids:            []*pb.PointId{pointID(id)},
		WithPayload:    withPayload(),
	})
	if err != nil {
		return model.Record{}, fmt.Errorf("qdrant: get: %w", err)
	}
	result := resp.GetResult()
	if len(result) == 0 {
		return model.Record{}, fmt.Errorf("qdrant: memory %s not found", id)
	}
	return recordFromPayload(pointIDString(result[0].GetId()), result[0].GetPayload()), nil
}

func (s *Store) Update(ctx context.Context, id string, rec model.Record, embedding []float32) error {
	if embedding != nil {
		return s.Upsert(ctx, []registryvector.UpsertRequest{{Record: rec, Embedding: embedding}})
	}
	// Payload-only update: keep the stored vector.
	_, err := s.points.OverwritePayload(ctx, &pb.SetPayloadPoints{
		CollectionName: s.collectionName,
		Payload:        payloadFromRecord(rec),
		PointsSelector: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: []*pb.PointId{pointID(id)}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: overwrite payload: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: s.collectionName,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Points{
				Points: &pb.PointsIdsList{Ids: []*pb.PointId{pointID(id)}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete: %w", err)
	}
	return nil
}

func userFilter(userID string) *pb.Filter {
	return &pb.Filter{
		Must: []*pb.Condition{
			{
				ConditionOneOf: &pb.Condition_Field{
					Field: &pb.FieldCondition{
						Key: "user_id",
						Match: &pb.Match{
							MatchValue: &pb.Match_Keyword{Keyword: userID},
						},
					},
				},
			},
		},
	}
}

func withPayload() *pb.WithPayloadSelector {
	return &pb.WithPayloadSelector{
		SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
	}
}

func pointID(id string) *pb.PointId {
	return &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: id}}
}

func pointIDString(id *pb.PointId) string {
	if id == nil {
		return ""
	}
	return id.GetUuid()
}

func newUint64(v uint64) *uint64 { return &v }
func newUint32(v uint32) *uint32 { return &v }

func dialOptions(cfg *config.Config) []grpc.DialOption {
	opts := make([]grpc.DialOption, 0, 2)
	if cfg.QdrantUseTLS {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(nil)))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	if strings.TrimSpace(cfg.QdrantAPIKey) != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(apiKeyCredentials{
			apiKey:     cfg.QdrantAPIKey,
			requireTLS: cfg.QdrantUseTLS,
		}))
	}
	return opts
}

type apiKeyCredentials struct {
	apiKey     string
	requireTLS bool
}

func (a apiKeyCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"api-key": a.apiKey}, nil
}

func (a apiKeyCredentials) RequireTransportSecurity() bool {
	return a.requireTLS
}

func effectiveEmbeddingDimension(cfg *config.Config) uint64 {
	if cfg != nil && cfg.OpenAIDimensions > 0 {
		return uint64(cfg.OpenAIDimensions)
	}
	return 1536
}

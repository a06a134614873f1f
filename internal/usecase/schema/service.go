package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/domain/collection"
	"github.com/kailas-cloud/fusedex/internal/domain/collection/field"
)

// DefaultSampleSize bounds how many documents are sampled for used field
// names when no explicit size is configured.
const DefaultSampleSize = 100

// Service resolves the fields a collection actually uses against its
// declared schema. The output feeds query translation upstream; it carries
// no document data.
type Service struct {
	repo       Introspector
	sampleSize int
	logger     *zap.Logger
}

// New creates a field schema resolver.
func New(repo Introspector, sampleSize int, logger *zap.Logger) *Service {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, sampleSize: sampleSize, logger: logger}
}

// DescribeUsedFields samples documents for field names in use and resolves
// each name to a descriptor: exact declaration first, then the most specific
// matching dynamic pattern, then the fallback. Sampling failure fails the
// call; introspection failure degrades every descriptor to the fallback
// instead. Internal fields (leading underscore) are excluded, output is
// sorted by name.
func (s *Service) DescribeUsedFields(ctx context.Context, collectionName string) ([]field.Field, error) {
	if err := collection.ValidateName(collectionName); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidParameter)
	}

	names, err := s.repo.SampleFields(ctx, collectionName, s.sampleSize)
	if err != nil {
		return nil, err
	}

	sch, schemaErr := s.repo.Schema(ctx, collectionName)
	if schemaErr != nil {
		s.logger.Warn("Schema introspection failed, using fallback descriptors",
			zap.String("collection", collectionName),
			zap.Error(schemaErr))
	}

	fields := make([]field.Field, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, "_") {
			continue
		}
		fields = append(fields, resolveField(sch, name, schemaErr != nil))
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].Name() < fields[j].Name() })
	return fields, nil
}

func resolveField(sch collection.Schema, name string, degraded bool) field.Field {
	if degraded {
		return field.Fallback(name)
	}
	if f, ok := sch.FieldByName(name); ok {
		return f
	}
	if p, ok := sch.BestPattern(name); ok {
		return p.Resolve(name)
	}
	return field.Fallback(name)
}

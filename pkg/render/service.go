package render

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/johan-droid/Resumedia-a-resume-webapp/pkg/resume"
)

// Service renders resumes and caches compiled PDFs. Cache keys carry the
// resume's UpdatedAt, so any successful write makes older renders unreachable.
type Service struct {
	compiler Compiler
	cache    Cache
	ttl      time.Duration
}

func NewService(compiler Compiler, cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = NoCache{}
	}
	return &Service{compiler: compiler, cache: cache, ttl: ttl}
}

// Engine names the configured PDF compiler.
func (s *Service) Engine() string { return s.compiler.Name() }

func (s *Service) Markup(p resume.Profile) string { return Markup(p) }

// PDF returns the compiled document for p, from cache when the same version
// was rendered before.
func (s *Service) PDF(ctx context.Context, p resume.Profile) ([]byte, error) {
	key := cacheKey(s.compiler.Name(), p)
	if b, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("resume_id", p.ID.String()).Msg("render: cache read")
	} else if ok {
		return b, nil
	}

	b, err := s.compiler.Compile(ctx, p)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
			log.Warn().Err(err).Str("resume_id", p.ID.String()).Msg("render: cache write")
		}
	}
	return b, nil
}

func cacheKey(engine string, p resume.Profile) string {
	return fmt.Sprintf("render:pdf:%s:%s:%d", engine, p.ID, p.UpdatedAt.UnixNano())
}

package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/octobees/supplier-finder/internal/dto"
)

var (
	fillerExpr      = regexp.MustCompile(`(?i)\b(find|me|get|list|show|some|please|suppliers?|manufacturers?|vendors?|exporters?|makers?|of|for)\b`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:in|near|around|from)\s+([a-zA-Z][a-zA-Z\s,]*)`)
	certPattern     = regexp.MustCompile(`(?i)\bwith\s+(.+)$`)
)

// PromptService interprets free-form supplier prompts such as
// "injection molding suppliers in Coimbatore with ISO 9001".
type PromptService struct {
	DefaultRegion string
}

// NewPromptService creates a prompt parser with sensible defaults.
func NewPromptService(defaultRegion string) *PromptService {
	if strings.TrimSpace(defaultRegion) == "" {
		defaultRegion = "India"
	}
	return &PromptService{DefaultRegion: defaultRegion}
}

// Parse converts a prompt request into structured finder parameters.
func (s *PromptService) Parse(req dto.PromptSearchRequest) (dto.FindSuppliersRequest, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return dto.FindSuppliersRequest{}, errors.New("prompt is required")
	}

	certification := ""
	if match := certPattern.FindStringSubmatch(prompt); len(match) > 1 {
		certification = strings.TrimSpace(match[1])
		idx := strings.Index(strings.ToLower(prompt), strings.ToLower(match[0]))
		if idx >= 0 {
			prompt = strings.TrimSpace(prompt[:idx])
		}
	}

	region := ""
	if match := locationPattern.FindStringSubmatch(prompt); len(match) > 1 {
		region = titleCase(strings.Trim(match[1], " ,"))
		idx := strings.Index(strings.ToLower(prompt), strings.ToLower(match[0]))
		if idx >= 0 {
			prompt = strings.TrimSpace(prompt[:idx])
		}
	}
	if region == "" {
		region = s.DefaultRegion
	}

	commodity := fillerExpr.ReplaceAllString(prompt, " ")
	commodity = strings.Join(strings.Fields(commodity), " ")
	if commodity == "" {
		return dto.FindSuppliersRequest{}, errors.New("could not determine a commodity from the prompt")
	}

	return dto.FindSuppliersRequest{
		Commodity:     commodity,
		Region:        region,
		Certification: certification,
		MaxResults:    req.MaxResults,
		RegionHint:    req.RegionHint,
	}, nil
}

func titleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	parts := strings.Fields(value)
	for i, p := range parts {
		lower := strings.ToLower(p)
		if len(lower) == 0 {
			continue
		}
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

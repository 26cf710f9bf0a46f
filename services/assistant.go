package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"

	"github.com/meinhoongagan/senior-care-app/ai"
	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/repository"
	"github.com/meinhoongagan/senior-care-app/validation"
)

const (
	assistantPersona = "You are a helpful assistant for a senior-care services marketplace. " +
		"You help families find in-home care, companionship, transport and household help for older adults. " +
		"Be concise and practical, and never give medical diagnoses."
	maxShortlist = 5
)

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

type ChatInput struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=30,dive"`
}

type PricingInput struct {
	ServiceType string   `json:"serviceType" validate:"required,max=100"`
	Hours       *float64 `json:"hours" validate:"omitempty,gt=0,lte=168"`
	Location    string   `json:"location" validate:"max=255"`
	Details     string   `json:"details" validate:"max=2000"`
}

type RecommendInput struct {
	CategoryID  *uint  `json:"categoryId"`
	ServiceType string `json:"serviceType" validate:"max=100"`
	Needs       string `json:"needs" validate:"max=2000"`
	Location    string `json:"location" validate:"max=255"`
}

type CarePlanInput struct {
	RecipientAge *int     `json:"recipientAge" validate:"omitempty,gte=0,lte=130"`
	Conditions   []string `json:"conditions" validate:"max=20,dive,max=200"`
	Needs        string   `json:"needs" validate:"required,max=2000"`
	Schedule     string   `json:"schedule" validate:"max=500"`
}

type Recommendation struct {
	Providers []ProviderProfile `json:"providers"`
	// Summary is empty when the assistant could not be reached.
	Summary string `json:"summary"`
}

type AssistantService struct {
	ai         Completer
	users      repository.UserRepository
	categories repository.CategoryRepository
}

func NewAssistantService(completer Completer, users repository.UserRepository, categories repository.CategoryRepository) *AssistantService {
	return &AssistantService{ai: completer, users: users, categories: categories}
}

func (s *AssistantService) complete(ctx context.Context, feature string, messages []ai.Message) (string, error) {
	conversation := append([]ai.Message{{Role: "system", Content: assistantPersona}}, messages...)
	reply, err := s.ai.Complete(ctx, conversation)
	if err != nil {
		logging.Warn().Err(err).Str("feature", feature).Msg("AI completion failed")
		return "", ErrAssistantUnavailable
	}
	return reply, nil
}

func (s *AssistantService) Chat(ctx context.Context, in ChatInput) (string, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return "", err
	}
	messages := make([]ai.Message, len(in.Messages))
	for i, m := range in.Messages {
		messages[i] = ai.Message{Role: m.Role, Content: m.Content}
	}
	return s.complete(ctx, "chat", messages)
}

func (s *AssistantService) EstimatePrice(ctx context.Context, in PricingInput) (string, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Estimate a fair price range in USD for %s.", in.ServiceType)
	if in.Hours != nil {
		fmt.Fprintf(&b, " Expected duration: %.1f hours.", *in.Hours)
	}
	if in.Location != "" {
		fmt.Fprintf(&b, " Location: %s.", in.Location)
	}
	if in.Details != "" {
		fmt.Fprintf(&b, " Details: %s.", in.Details)
	}
	b.WriteString(" Give an hourly range, a total range, and the main factors affecting price.")
	return s.complete(ctx, "pricing", []ai.Message{{Role: "user", Content: b.String()}})
}

func (s *AssistantService) CarePlan(ctx context.Context, in CarePlanInput) (string, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Draft a weekly non-medical care plan for an older adult.")
	if in.RecipientAge != nil {
		fmt.Fprintf(&b, " Age: %d.", *in.RecipientAge)
	}
	if len(in.Conditions) > 0 {
		fmt.Fprintf(&b, " Known conditions: %s.", strings.Join(in.Conditions, ", "))
	}
	fmt.Fprintf(&b, " Needs: %s.", in.Needs)
	if in.Schedule != "" {
		fmt.Fprintf(&b, " Preferred schedule: %s.", in.Schedule)
	}
	b.WriteString(" Organise it by day and list the type of provider suited to each task.")
	return s.complete(ctx, "care_plan", []ai.Message{{Role: "user", Content: b.String()}})
}

// Recommend shortlists providers from the directory, vetted ones first, and
// asks the assistant to summarise the fit. The shortlist is returned even
// when the summary cannot be produced.
func (s *AssistantService) Recommend(ctx context.Context, in RecommendInput) (*Recommendation, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	serviceType := strings.TrimSpace(in.ServiceType)
	topic := serviceType
	if in.CategoryID != nil {
		category, err := s.categories.FindCategoryByID(ctx, *in.CategoryID)
		if errors.Is(err, errors.NotFound) {
			return nil, notFound("Category not found")
		}
		if err != nil {
			return nil, errors.Trace(err)
		}
		if topic == "" {
			topic = category.Title
		}
	}

	users, err := s.users.List(ctx, models.UserFilter{Role: models.RoleProvider, ServiceType: serviceType})
	if err != nil {
		return nil, errors.Trace(err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].VettedStatus == models.VettedStatusVetted && users[j].VettedStatus != models.VettedStatusVetted
	})
	if len(users) > maxShortlist {
		users = users[:maxShortlist]
	}

	rec := &Recommendation{Providers: make([]ProviderProfile, len(users))}
	for i := range users {
		rec.Providers[i] = profileOf(&users[i])
	}
	if len(rec.Providers) == 0 {
		return rec, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A family is looking for %s", orDefault(topic, "senior care"))
	if in.Location != "" {
		fmt.Fprintf(&b, " near %s", in.Location)
	}
	b.WriteString(".")
	if in.Needs != "" {
		fmt.Fprintf(&b, " Their needs: %s.", in.Needs)
	}
	b.WriteString(" Briefly explain which of these providers fits best and why:\n")
	for _, p := range rec.Providers {
		years := "unknown"
		if p.YearsOfExperience != nil {
			years = fmt.Sprintf("%d", *p.YearsOfExperience)
		}
		fmt.Fprintf(&b, "- #%d %s (%s, %s years, vetted: %t): %s\n",
			p.ID, orDefault(p.BusinessName, p.Username), orDefault(p.ServiceType, "general"), years, p.Vetted, p.Description)
	}

	summary, err := s.complete(ctx, "recommendations", []ai.Message{{Role: "user", Content: b.String()}})
	if err == nil {
		rec.Summary = summary
	}
	return rec, nil
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

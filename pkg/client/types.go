package client

// SurveyOption is one selectable answer choice.
type SurveyOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// SurveyQuestion is one question of the onboarding survey.
type SurveyQuestion struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Type          string         `json:"type"`
	MultiSelect   bool           `json:"multiSelect"`
	MaxSelections int            `json:"maxSelections,omitempty"`
	Options       []SurveyOption `json:"options"`
}

// Answer pairs a question id with the chosen option ids.
type Answer struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionIDs []string `json:"selectedOptionIds"`
}

// RecommendationRequest is the input to Recommend.
type RecommendationRequest struct {
	Answers      []Answer          `json:"answers"`
	PromptParams map[string]string `json:"promptParams,omitempty"`
}

// ProductRecommendation is one recommended product with its pitch.
type ProductRecommendation struct {
	ProductID           string   `json:"productId"`
	Type                string   `json:"type"`
	Name                string   `json:"name"`
	Headline            string   `json:"headline"`
	Benefits            []string `json:"benefits"`
	Caution             string   `json:"caution,omitempty"`
	NextAction          string   `json:"nextAction,omitempty"`
	MinMonthlyAmount    *int     `json:"minMonthlyAmount,omitempty"`
	MaxMonthlyAmount    *int     `json:"maxMonthlyAmount,omitempty"`
	GuardianRequired    bool     `json:"guardianRequired"`
	HighlightCategories []string `json:"highlightCategories,omitempty"`
	DigitalFriendly     bool     `json:"digitalFriendly"`
}

// RecommendationResult is the output of Recommend.
type RecommendationResult struct {
	Summary  string                  `json:"summary"`
	Insights []string                `json:"insights"`
	Savings  []ProductRecommendation `json:"savings"`
	Cards    []ProductRecommendation `json:"cards"`
}

// ChatRequest is one finance advisor question.
type ChatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse is the advisor's reply.
type ChatResponse struct {
	SessionID      string `json:"sessionId"`
	Reply          string `json:"reply"`
	FinanceRelated bool   `json:"financeRelated"`
}

// User is a player record.
type User struct {
	ID         int64  `json:"id"`
	ExternalID string `json:"externalId"`
	Nickname   string `json:"nickname"`
	Job        string `json:"job"`
	Gold       int64  `json:"gold"`
}

// CreateUserRequest registers a player.
type CreateUserRequest struct {
	UserID string `json:"userId"`
	Job    string `json:"job,omitempty"`
}

// RewardRequest credits mini-game gold.
type RewardRequest struct {
	UserID     string `json:"userId"`
	GameType   string `json:"gameType,omitempty"`
	Success    bool   `json:"success"`
	EarnedGold int64  `json:"earnedGold"`
}

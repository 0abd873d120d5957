// Package finchat answers free-form finance questions from teens.  Every turn
// is first classified by the model as finance or not_finance; off-topic
// questions get a fixed refusal instead of an answer.
package finchat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/llm"
	"github.com/turtlebank/teenfin/internal/recommend"
)

const systemPrompt = `너는 친절한 금융 상담가야. 사용자의 질문이 금융, 경제, 투자, 소비, 자산, 연금, 보험과 관련 있는지 먼저 판단해.
반드시 아래 JSON 한 개만 출력해.
{
  "category": "finance" 또는 "not_finance",
  "confidence": 0.0 이상 1.0 이하 숫자,
  "reply": 한국어로 3~4문장 설명 (category가 finance면 질문에 답하고, not_finance면 거절 안내),
  "notes": (선택) 판단 근거 한두 문장
}
- category가 finance이면 reply는 4문장 이내로 간결하게 작성하고, 필요한 경우 마지막 문장에 주의 문구를 붙여줘.
- category가 not_finance이면 reply에 금융 주제가 아니라는 안내를 적어줘.
- JSON 외 다른 문장은 출력하지 마.`

const (
	refusalMessage        = "금융이나 자산 관리와 관련된 질문을 보내줘. 다른 주제는 답변하기 어려워."
	temporaryIssueMessage = "지금은 상담 답변을 준비하지 못했어요. 잠시 뒤에 다시 시도해 줄래요?"
	missingKeyMessage     = "모델 API 설정이 아직 완료되지 않았어요. 환경 변수를 확인해 주세요."
)

const (
	maxHistory      = 6
	chatTemperature = 0.4
	schemaName      = "FinanceAdvisorResponse"
)

type chatTurn struct {
	question string
	reply    string
}

// Service runs the classify-then-answer chat loop and keeps per-session
// history in memory.  History is bounded to the last few turns per session.
type Service struct {
	gw  llm.Gateway
	log logging.Logger

	mu      sync.Mutex
	history map[string][]chatTurn
}

// NewService builds a chat service on the given model gateway.
func NewService(gw llm.Gateway, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{
		gw:      gw,
		log:     log.Named("finchat"),
		history: make(map[string][]chatTurn),
	}
}

// Chat answers one question.  It never returns an error; model failures
// degrade to canned service messages so the client always gets a reply.
func (s *Service) Chat(ctx context.Context, req Request) Response {
	question := strings.TrimSpace(req.Question)
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = newSessionID()
	}

	if !s.gw.Enabled() {
		s.log.Warn("model gateway disabled, cannot answer chat request",
			logging.String("session_id", sessionID))
		return Response{SessionID: sessionID, Reply: missingKeyMessage}
	}

	financeRelated := false
	reply := refusalMessage

	raw, err := s.gw.Generate(ctx, systemPrompt, s.userPrompt(sessionID, question), llm.GenerationParams{
		Temperature:    chatTemperature,
		ResponseSchema: responseSchema(),
		SchemaName:     schemaName,
	})
	switch {
	case err != nil:
		s.log.Warn("finance chat generation failed",
			logging.String("session_id", sessionID), logging.Err(err))
		reply = temporaryIssueMessage
	default:
		if d, ok := parseDecision(raw); ok {
			financeRelated = d.finance
			reply = d.reply
			if !d.finance {
				reply = refusalMessage
			}
			s.log.Debug("finance classification result",
				logging.Bool("finance", d.finance),
				logging.Float64("confidence", d.confidence))
		} else {
			// Model ignored the schema.  Pass the text through rather
			// than discard a possibly useful answer.
			financeRelated = true
			reply = raw
			s.log.Warn("model returned non-JSON chat response",
				logging.String("session_id", sessionID))
		}
	}

	s.appendHistory(sessionID, question, reply)
	return Response{SessionID: sessionID, Reply: reply, FinanceRelated: financeRelated}
}

// userPrompt renders prior turns of the session into a transcript ahead of
// the new question so the model keeps conversational context.
func (s *Service) userPrompt(sessionID, question string) string {
	turns := s.turns(sessionID)
	if len(turns) == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString("이전 대화:\n")
	for _, t := range turns {
		b.WriteString("학생: ")
		b.WriteString(t.question)
		b.WriteString("\n상담가: ")
		b.WriteString(t.reply)
		b.WriteString("\n")
	}
	b.WriteString("\n새 질문: ")
	b.WriteString(question)
	return b.String()
}

func (s *Service) turns(sessionID string) []chatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.history[sessionID]
	out := make([]chatTurn, len(turns))
	copy(out, turns)
	return out
}

func (s *Service) appendHistory(sessionID, question, reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	turns := s.history[sessionID]
	if len(turns) >= maxHistory {
		turns = turns[1:]
	}
	s.history[sessionID] = append(turns, chatTurn{question: question, reply: reply})
}

type decision struct {
	finance    bool
	reply      string
	confidence float64
}

// parseDecision extracts the classification object from the raw model text.
// Models occasionally nest the object under a wrapper key or an array; those
// shapes are unwrapped before giving up.
func parseDecision(raw string) (decision, bool) {
	var root map[string]any
	if err := json.Unmarshal([]byte(recommend.StripCodeFence(raw)), &root); err != nil {
		return decision{}, false
	}

	node := decisionNode(root)
	if node == nil {
		return decision{}, false
	}

	category, _ := node["category"].(string)
	reply, _ := node["reply"].(string)
	if strings.TrimSpace(category) == "" || strings.TrimSpace(reply) == "" {
		return decision{}, false
	}
	confidence, _ := node["confidence"].(float64)

	return decision{
		finance:    strings.EqualFold(category, "finance"),
		reply:      reply,
		confidence: confidence,
	}, true
}

var wrapperKeys = []string{"output", "data", "result", "response", "financeAdvisorResponse"}

func decisionNode(root map[string]any) map[string]any {
	if hasDecisionShape(root) {
		return root
	}
	for _, key := range wrapperKeys {
		switch child := root[key].(type) {
		case map[string]any:
			if hasDecisionShape(child) {
				return child
			}
		case []any:
			if len(child) == 0 {
				continue
			}
			if first, ok := child[0].(map[string]any); ok && hasDecisionShape(first) {
				return first
			}
		}
	}
	return nil
}

func hasDecisionShape(node map[string]any) bool {
	_, hasCategory := node["category"]
	_, hasReply := node["reply"]
	return hasCategory && hasReply
}

func responseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category": map[string]any{
				"type": "string",
				"enum": []string{"finance", "not_finance"},
			},
			"confidence": map[string]any{
				"type":    "number",
				"minimum": 0,
				"maximum": 1,
			},
			"reply": map[string]any{"type": "string"},
			"notes": map[string]any{"type": "string"},
		},
		"required": []string{"category", "reply", "confidence"},
	}
}

func newSessionID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

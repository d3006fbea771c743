package service

import (
	"sort"

	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
)

const (
	emptySessionMessage    = "No questions found! This topic is still being written, please try another one."
	finishedSessionMessage = "Well done, brave adventurer!"
)

func toSessionResponse(s *domain.QuizSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:             s.ID,
		TopicID:        s.TopicID,
		Theme:          s.Theme,
		State:          string(s.State),
		Total:          s.Total(),
		Score:          s.Score,
		HintVisible:    s.HintVisible,
		IsLastQuestion: s.IsLastQuestion(),
		CreatedAt:      s.CreatedAt,
	}

	switch s.State {
	case domain.SessionEmpty:
		resp.Message = emptySessionMessage
	case domain.SessionFinished:
		resp.Result = &dto.ResultView{Score: s.Score, Total: s.Total(), Message: finishedSessionMessage}
	}

	q, ok := s.Current()
	if !ok {
		return resp
	}
	resp.Question = &dto.QuestionView{
		ID:            q.ID,
		Number:        s.Position + 1,
		Text:          q.Text,
		Options:       q.Options,
		HintAvailable: q.Hint != "",
	}
	if s.HintVisible {
		resp.Question.Hint = q.Hint
	}
	if a := s.CurrentAnswer(); a != nil {
		resp.Answer = &dto.AnswerView{
			OptionIndex:        a.OptionIndex,
			IsCorrect:          a.IsCorrect,
			CorrectOptionIndex: q.CorrectOptionIndex,
		}
	}
	return resp
}

func toProfileResponse(p *domain.Profile) *dto.UserProfileResponse {
	progress := make(map[string]dto.ProgressResponse, len(p.Progress))
	for topicID, rec := range p.Progress {
		progress[topicID] = dto.ProgressResponse{Score: rec.Score, Total: rec.Total, LastAttempt: rec.LastAttempt}
	}
	return &dto.UserProfileResponse{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		FirstName:   p.FirstName(),
		Theme:       p.Theme,
		Progress:    progress,
	}
}

func toTopicResponses(topics []domain.Topic) []dto.TopicResponse {
	out := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, dto.TopicResponse{ID: t.ID, Name: t.Name, Description: t.Description, Icon: t.Icon})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toThemeResponses(themes []domain.Theme) []dto.ThemeResponse {
	out := make([]dto.ThemeResponse, 0, len(themes))
	for _, t := range themes {
		out = append(out, dto.ThemeResponse{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	return out
}

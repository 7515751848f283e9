package service

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/answerhub/community-api/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const questionsIndex = "questions"

type SearchService interface {
	IndexQuestion(question *model.Question) error
	DeleteQuestion(id string) error
	Search(query string, categoryID string, solved *bool, page, limit int) (*meilisearch.SearchResponse, error)
}

type searchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *searchService) initIndexes() {
	filterableAttrs := []string{"category_id", "tags", "is_solved"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	if _, err := s.client.Index(questionsIndex).UpdateFilterableAttributes(&filterableInterface); err != nil {
		log.Printf("Failed to update questions filterable attributes: %v", err)
	}

	sortableAttrs := []string{"created_at", "vote_score", "view_count"}
	if _, err := s.client.Index(questionsIndex).UpdateSortableAttributes(&sortableAttrs); err != nil {
		log.Printf("Failed to update questions sortable attributes: %v", err)
	}
}

type meiliQuestionDoc struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	CategoryID string   `json:"category_id"`
	Tags       []string `json:"tags"`
	IsSolved   bool     `json:"is_solved"`
	VoteScore  int      `json:"vote_score"`
	ViewCount  int      `json:"view_count"`
	CreatedAt  int64    `json:"created_at"`
	Author     string   `json:"author"` // empty for anonymous questions
}

func (s *searchService) cleanContentForIndex(content string) string {
	// Replace block tags with spaces to prevent words merging
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexQuestion(question *model.Question) error {
	var tags []string
	if len(question.Tags) > 0 {
		_ = json.Unmarshal(question.Tags, &tags)
	}

	author := ""
	if !question.IsAnonymous {
		author = question.Author.Username
	}

	doc := meiliQuestionDoc{
		ID:         question.ID.String(),
		Title:      question.Title,
		Content:    s.cleanContentForIndex(question.Content),
		CategoryID: question.CategoryID.String(),
		Tags:       tags,
		IsSolved:   question.IsSolved,
		VoteScore:  question.VoteScore,
		ViewCount:  question.ViewCount,
		CreatedAt:  question.CreatedAt.Unix(),
		Author:     author,
	}

	primaryKey := "id"
	task, err := s.client.Index(questionsIndex).AddDocuments([]meiliQuestionDoc{doc}, &primaryKey)
	if err != nil {
		return fmt.Errorf("failed to index question %s: %w", doc.ID, err)
	}
	_ = task

	return nil
}

func (s *searchService) DeleteQuestion(id string) error {
	_, err := s.client.Index(questionsIndex).DeleteDocument(id)
	if err != nil {
		return fmt.Errorf("failed to delete question %s from index: %w", id, err)
	}
	return nil
}

func (s *searchService) Search(query string, categoryID string, solved *bool, page, limit int) (*meilisearch.SearchResponse, error) {
	var filters []string
	if categoryID != "" {
		filters = append(filters, fmt.Sprintf("category_id = %q", categoryID))
	}
	if solved != nil {
		filters = append(filters, fmt.Sprintf("is_solved = %t", *solved))
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	req := &meilisearch.SearchRequest{
		Page:        int64(page),
		HitsPerPage: int64(limit),
	}
	if len(filters) > 0 {
		req.Filter = strings.Join(filters, " AND ")
	}

	return s.client.Index(questionsIndex).Search(query, req)
}

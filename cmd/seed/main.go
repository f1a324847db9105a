package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentscope/internal/config"
	"talentscope/internal/model"
)

// Question bank layout: 90 questions over 3 pages of 30. Five big-five
// categories with 14 questions each, 12 THINKING questions (3 per declared
// sub-dimension), 8 BEHAVIOR questions.
type questionGroup struct {
	category model.QuestionCategory
	count    int
	reverse  []int // indices within the category that are reverse-keyed
	prompts  []string
}

var bank = []questionGroup{
	{
		category: model.CategoryExtraversion,
		count:    14,
		reverse:  []int{3, 7, 11},
		prompts: []string{
			"I feel energized after spending time with a group of people.",
			"I am usually the one who starts conversations.",
			"I enjoy being the center of attention at work events.",
			"I prefer to work alone rather than in a team.",
			"I find it easy to approach people I have never met.",
			"I speak up readily in large meetings.",
			"I enjoy networking events and mixers.",
			"I need quiet time alone to recover after meetings.",
			"I make new acquaintances quickly.",
			"I am talkative around colleagues.",
			"I volunteer to present in front of others.",
			"I keep my thoughts to myself in group discussions.",
			"People describe me as outgoing.",
			"I seek out opportunities to collaborate face to face.",
		},
	},
	{
		category: model.CategoryAgreeableness,
		count:    14,
		reverse:  []int{2, 9},
		prompts: []string{
			"I go out of my way to make others feel comfortable.",
			"I trust my colleagues' intentions.",
			"I insist on my own way even when others disagree.",
			"I am quick to forgive mistakes.",
			"I take time to listen to coworkers' problems.",
			"I share credit for successes generously.",
			"I avoid criticizing people in public.",
			"I adjust my plans to accommodate teammates.",
			"I sympathize with colleagues under pressure.",
			"I find it hard to compromise in negotiations.",
			"I assume the best about people I work with.",
			"I offer help before being asked.",
			"I care about my coworkers' well-being.",
			"I treat everyone with the same respect regardless of rank.",
		},
	},
	{
		category: model.CategoryConscientiousness,
		count:    14,
		reverse:  []int{5, 12},
		prompts: []string{
			"I finish tasks well before the deadline.",
			"I keep my workspace and files organized.",
			"I follow through on every commitment I make.",
			"I double-check my work for errors.",
			"I plan my week in detail before it starts.",
			"I leave tasks unfinished when I lose interest.",
			"I keep accurate records of what I have done.",
			"I set concrete goals and track my progress.",
			"I am punctual for meetings and appointments.",
			"I prepare thoroughly before important discussions.",
			"I stick to a schedule even without supervision.",
			"I prioritize duties over leisure.",
			"I put off difficult tasks until the last minute.",
			"I take pride in being reliable.",
		},
	},
	{
		category: model.CategoryNeuroticism,
		count:    14,
		reverse:  []int{4, 8, 13},
		prompts: []string{
			"I worry about things that might go wrong.",
			"I get stressed easily under tight deadlines.",
			"Criticism affects my mood for a long time.",
			"I feel tense before important presentations.",
			"I stay calm in emergencies.",
			"Small setbacks can ruin my whole day.",
			"I have trouble sleeping when work is demanding.",
			"I dwell on mistakes I have made.",
			"I recover quickly from disappointments.",
			"Unexpected changes make me anxious.",
			"I feel overwhelmed when juggling many tasks.",
			"My mood swings noticeably during stressful weeks.",
			"I get irritated by minor annoyances.",
			"I keep my composure when others panic.",
		},
	},
	{
		category: model.CategoryOpenness,
		count:    14,
		reverse:  []int{6, 10},
		prompts: []string{
			"I enjoy learning skills outside my specialty.",
			"I like to question the way things have always been done.",
			"I am curious about ideas from other industries.",
			"I enjoy abstract or theoretical discussions.",
			"I seek out unfamiliar experiences.",
			"I imagine alternative futures for my field.",
			"I prefer familiar routines over new approaches.",
			"I appreciate art, music, or literature deeply.",
			"I experiment with new tools before they are required.",
			"I enjoy debating philosophical questions.",
			"I am uncomfortable with ambiguous problems.",
			"I read widely beyond my job's requirements.",
			"I generate many ideas when brainstorming.",
			"I welcome radical proposals worth exploring.",
		},
	},
	{
		category: model.CategoryThinking,
		count:    12,
		reverse:  []int{},
		prompts: []string{
			"I base decisions on evidence rather than gut feeling.",
			"I trace problems to their root cause step by step.",
			"I weigh pros and cons explicitly before choosing.",
			"I sense the right answer before I can explain it.",
			"My first instinct about people usually proves correct.",
			"I rely on hunches when data is incomplete.",
			"I break complex problems into measurable parts.",
			"I look for patterns in numbers and reports.",
			"I enjoy dissecting how a process works.",
			"I come up with unconventional solutions.",
			"I connect ideas nobody else thought to combine.",
			"I reframe problems to find new angles.",
		},
	},
	{
		category: model.CategoryBehavior,
		count:    8,
		reverse:  []int{3},
		prompts: []string{
			"I act on decisions as soon as they are made.",
			"I keep teammates informed of my progress without being asked.",
			"I adapt my style to whoever I am working with.",
			"I wait for detailed instructions before starting work.",
			"I push projects forward even when ownership is unclear.",
			"I deliver consistent quality under time pressure.",
			"I coordinate smoothly with other departments.",
			"I balance speed and accuracy deliberately.",
		},
	},
}

// THINKING questions declare their sub-dimension: three per dimension, in
// prompt order logical, intuitive, analytical, creative.
var thinkingSubDims = []string{
	model.DimLogical, model.DimLogical, model.DimLogical,
	model.DimIntuitive, model.DimIntuitive, model.DimIntuitive,
	model.DimAnalytical, model.DimAnalytical, model.DimAnalytical,
	model.DimCreative, model.DimCreative, model.DimCreative,
}

const questionsPerPage = 30

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	coll := client.Database(cfg.MongoDB).Collection("questions")

	existing, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to count questions: %v", err)
	}
	if existing > 0 {
		log.Printf("questions collection already has %d documents, skipping seed", existing)
		return
	}

	var docs []interface{}
	order := 0
	for _, group := range bank {
		reverse := make(map[int]bool, len(group.reverse))
		for _, i := range group.reverse {
			reverse[i] = true
		}
		for i := 0; i < group.count; i++ {
			order++
			q := &model.Question{
				ID:          fmt.Sprintf("q%03d", order),
				Text:        group.prompts[i],
				Category:    group.category,
				OrderNumber: order,
				Page:        (order-1)/questionsPerPage + 1,
				IsReverse:   reverse[i],
				IsActive:    true,
			}
			if group.category == model.CategoryThinking {
				q.SubDimension = thinkingSubDims[i]
			}
			docs = append(docs, q)
		}
	}

	if _, err := coll.InsertMany(ctx, docs); err != nil {
		log.Fatalf("Failed to insert questions: %v", err)
	}
	log.Printf("seeded %d questions", len(docs))
}

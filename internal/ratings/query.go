package ratings

import (
	"strings"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

const teacherFields = `
            id
            firstName
            lastName
            department
            avgRating
            avgDifficulty
            numRatings
            wouldTakeAgainPercent
            courseCodes { courseCount courseName }
            ratingsDistribution { r1 r2 r3 r4 r5 }`

const basicQuery = `query NewSearchTeachersQuery($query: TeacherSearchQuery!) {
  newSearch {
    teachers(query: $query) {
      edges {
        node {` + teacherFields + `
        }
      }
    }
  }
}`

const detailedQuery = `query NewSearchTeachersQuery($query: TeacherSearchQuery!, $courseFilter: String) {
  newSearch {
    teachers(query: $query) {
      edges {
        node {` + teacherFields + `
            ratings(first: 10, courseFilter: $courseFilter) {
              edges {
                node {
                  comment date class
                  helpfulRating clarityRating difficultyRating
                  thumbsUpTotal thumbsDownTotal wouldTakeAgain
                  isForCredit isForOnlineClass attendanceMandatory
                  ratingTags flagStatus textbookUse
                }
              }
            }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func (c *Client) request(text, courseFilter string, detailed bool) graphQLRequest {
	vars := map[string]any{
		"query": map[string]any{
			"schoolID": c.cfg.SchoolID,
			"text":     text,
			"fallback": true,
		},
	}
	query := basicQuery
	if detailed {
		query = detailedQuery
		if courseFilter != "" {
			vars["courseFilter"] = courseFilter
		}
	}
	return graphQLRequest{Query: query, Variables: vars}
}

type teacherNode struct {
	models.ProfessorCandidate
	Ratings struct {
		Edges []struct {
			Node models.CandidateRating `json:"node"`
		} `json:"edges"`
	} `json:"ratings"`
}

type searchResponse struct {
	Data struct {
		NewSearch struct {
			Teachers struct {
				Edges []struct {
					Node teacherNode `json:"node"`
				} `json:"edges"`
			} `json:"teachers"`
		} `json:"newSearch"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (r searchResponse) candidates() []models.ProfessorCandidate {
	edges := r.Data.NewSearch.Teachers.Edges
	out := make([]models.ProfessorCandidate, 0, len(edges))
	for _, edge := range edges {
		candidate := edge.Node.ProfessorCandidate
		for _, rating := range edge.Node.Ratings.Edges {
			candidate.Ratings = append(candidate.Ratings, rating.Node)
		}
		out = append(out, candidate)
	}
	return out
}

// ToProfile converts a matched candidate into the stored rating profile.
func ToProfile(c models.ProfessorCandidate, withRatings bool) *models.RatingProfile {
	profile := &models.RatingProfile{
		AvgRating:             c.AvgRating,
		NumRatings:            c.NumRatings,
		Department:            c.Department,
		WouldTakeAgainPercent: c.WouldTakeAgainPercent,
		DifficultyLevel:       c.AvgDifficulty,
		Name:                  strings.TrimSpace(c.FirstName + " " + c.LastName),
		RatingDistribution:    c.RatingsDistribution.Buckets(),
		CourseCodes:           c.CourseCodes,
	}
	if profile.CourseCodes == nil {
		profile.CourseCodes = []models.CourseTaught{}
	}
	if !withRatings {
		return profile
	}

	profile.AllRatings = make([]models.ProfessorRating, 0, len(c.Ratings))
	for _, r := range c.Ratings {
		profile.AllRatings = append(profile.AllRatings, models.ProfessorRating{
			ClassName:           r.Class,
			Date:                r.Date,
			HelpfulRating:       r.HelpfulRating,
			ClarityRating:       r.ClarityRating,
			DifficultyRating:    r.DifficultyRating,
			OverallRating:       (r.HelpfulRating + r.ClarityRating) / 2,
			Comment:             r.Comment,
			ThumbsUp:            r.ThumbsUpTotal,
			ThumbsDown:          r.ThumbsDownTotal,
			WouldTakeAgain:      r.WouldTakeAgain != nil && *r.WouldTakeAgain == 1,
			IsOnline:            r.IsForOnlineClass,
			IsForCredit:         r.IsForCredit,
			AttendanceMandatory: r.AttendanceMandatory,
			TextbookUse:         r.TextbookUse,
			Tags:                splitTags(r.RatingTags),
			FlagStatus:          r.FlagStatus,
		})
	}
	return profile
}

func splitTags(raw string) []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, "--") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

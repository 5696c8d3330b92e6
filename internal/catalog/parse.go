package catalog

import (
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/noah-isme/slugtistics-api/internal/models"
)

const (
	panelSelector   = "div.panel.panel-default.row"
	columnSelector  = "div.col-xs-6.col-sm-3, div.col-xs-6.col-sm-6"
	sectionSelector = "div.col-xs-6.col-sm-3"
	nextSelector    = `a[onclick*="next"]`
	sectionColumns  = 7
)

// resultsPage is one page of search results.
type resultsPage struct {
	courses []models.RawCourse
	hasNext bool
}

// courseDetails is the subset of a course page merged into the search result.
type courseDetails struct {
	Description        string
	ClassNotes         string
	EnrollmentReqs     string
	DiscussionSections []models.DiscussionSection
	GeneralEducation   string
	Credits            string
	Career             string
	Grading            string
	Type               string
}

func parseResults(r io.Reader, base *url.URL, ge string) (resultsPage, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return resultsPage{}, err
	}

	var page resultsPage
	doc.Find(panelSelector).Each(func(_ int, panel *goquery.Selection) {
		if course, ok := parsePanel(panel, base); ok {
			course.GE = ge
			page.courses = append(page.courses, course)
		}
	})
	page.hasNext = doc.Find(nextSelector).Length() > 0
	return page, nil
}

func parsePanel(panel *goquery.Selection, base *url.URL) (models.RawCourse, bool) {
	anchor := panel.Find("a").First()
	href, ok := anchor.Attr("href")
	if !ok {
		return models.RawCourse{}, false
	}

	code, name := splitTitle(cleanText(anchor.Text()))
	if code == "" {
		return models.RawCourse{}, false
	}

	course := models.RawCourse{
		Code:        code,
		Name:        name,
		Link:        resolveLink(base, href),
		Instructor:  models.StaffInstructor,
		ClassCount:  "N/A",
		Schedule:    models.DefaultSchedule,
		ClassStatus: "Unknown",
	}
	if status := panel.Find("span.sr-only").First(); status.Length() > 0 {
		course.ClassStatus = cleanText(status.Text())
	}

	panel.Find(columnSelector).Each(func(_ int, col *goquery.Selection) {
		text := cleanText(col.Text())
		switch {
		case strings.Contains(text, "Class Number:"):
			course.EnrollNum = valueAfter(text, "Class Number:")
		case strings.Contains(text, "Instructor:"):
			course.Instructor = flipName(valueAfter(text, "Instructor:"))
		case strings.Contains(text, "Instruction Mode:"):
			if b := col.Find("b").First(); b.Length() > 0 {
				course.ClassType = cleanText(b.Text())
			} else {
				course.ClassType = valueAfter(text, "Instruction Mode:")
			}
		case strings.Contains(text, "Enrolled"):
			course.ClassCount = enrolledCount(text)
		case strings.Contains(text, "Day and Time:"):
			if schedule := valueAfter(text, "Day and Time:"); schedule != "" {
				course.Schedule = schedule
			}
		case strings.Contains(text, "Location:"):
			course.Location = valueAfter(text, "Location:")
		}
	})

	return course, true
}

func parseDetails(r io.Reader) (courseDetails, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return courseDetails{}, err
	}

	var details courseDetails
	doc.Find(panelSelector).Each(func(i int, panel *goquery.Selection) {
		header := cleanText(panel.Find("div.panel-heading h2").First().Text())
		if header == "" {
			header = cleanText(panel.Find("h2").First().Text())
		}
		body := panel.Find(".panel-body").First()
		if header == "" || body.Length() == 0 {
			return
		}

		switch {
		case strings.Contains(header, "Associated Discussion Sections or Labs"):
			details.DiscussionSections = parseSections(body)
		case i == 0:
			parseDefinitionList(body, &details)
		case strings.Contains(header, "Description"):
			details.Description = cleanText(body.Text())
		case strings.Contains(header, "Class Notes"):
			details.ClassNotes = cleanText(body.Text())
		case strings.Contains(header, "Enrollment Requirements"):
			details.EnrollmentReqs = cleanText(body.Text())
		}
	})
	return details, nil
}

func parseSections(body *goquery.Selection) []models.DiscussionSection {
	cells := body.Find(sectionSelector).Map(func(_ int, s *goquery.Selection) string {
		return cleanText(s.Text())
	})

	sections := make([]models.DiscussionSection, 0, len(cells)/sectionColumns)
	for i := 0; i+sectionColumns <= len(cells); i += sectionColumns {
		group := cells[i : i+sectionColumns]
		fields := strings.Fields(group[0])
		if len(fields) == 0 {
			continue
		}
		sections = append(sections, models.DiscussionSection{
			EnrollNum:   strings.TrimPrefix(fields[0], "#"),
			Code:        strings.Join(fields[1:], " "),
			Schedule:    group[1],
			Instructor:  group[2],
			Location:    strings.TrimSpace(strings.TrimPrefix(group[3], "Loc:")),
			ClassCount:  strings.TrimSpace(strings.TrimPrefix(group[4], "Enrl:")),
			WaitCount:   strings.TrimSpace(strings.TrimPrefix(group[5], "Wait:")),
			ClassStatus: group[6],
		})
	}
	return sections
}

func parseDefinitionList(body *goquery.Selection, details *courseDetails) {
	body.Find(".dl-horizontal").Each(func(_ int, dl *goquery.Selection) {
		values := dl.Find("dd")
		dl.Find("dt").Each(func(j int, dt *goquery.Selection) {
			if j >= values.Length() {
				return
			}
			value := cleanText(values.Eq(j).Text())
			switch cleanText(dt.Text()) {
			case "Credits":
				details.Credits = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(value, "units"), " "))
			case "Career":
				details.Career = value
			case "General Education":
				details.GeneralEducation = value
			case "Grading":
				details.Grading = value
			case "Type":
				details.Type = value
			}
		})
	})
}

func (d courseDetails) apply(course *models.RawCourse) {
	course.Description = d.Description
	course.ClassNotes = d.ClassNotes
	course.EnrollmentReqs = d.EnrollmentReqs
	course.DiscussionSections = d.DiscussionSections
	course.Credits = d.Credits
	course.Career = d.Career
	course.Grading = d.Grading
	course.CourseType = d.Type
	if course.GE == "" {
		course.GE = d.GeneralEducation
	}
}

// splitTitle splits "CSE 101 - 01   Algorithms" into the code and the name without
// its section number.
func splitTitle(title string) (string, string) {
	code, rest, _ := strings.Cut(title, " - ")
	words := make([]string, 0)
	for _, word := range strings.Fields(rest) {
		if word[0] >= '0' && word[0] <= '9' {
			continue
		}
		words = append(words, word)
	}
	return strings.TrimSpace(code), strings.Join(words, " ")
}

// flipName turns "Last,First" into "First Last".
func flipName(name string) string {
	if name == "" {
		return models.StaffInstructor
	}
	last, first, ok := strings.Cut(name, ",")
	if !ok {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// enrolledCount turns "27 of 30 Enrolled" into "27/30".
func enrolledCount(text string) string {
	nums := make([]int, 0, 2)
	for _, field := range strings.Fields(text) {
		if n, err := strconv.Atoi(field); err == nil {
			nums = append(nums, n)
		}
	}
	if len(nums) < 2 {
		return "N/A"
	}
	return strconv.Itoa(nums[0]) + "/" + strconv.Itoa(nums[1])
}

func valueAfter(text, label string) string {
	_, value, _ := strings.Cut(text, label)
	return strings.TrimSpace(value)
}

func resolveLink(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return base.String() + href
	}
	return base.ResolveReference(ref).String()
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package model

import "strings"

const (
	JobIDField        = "ID"
	JobCompanyIDField = "CompanyID"
)

type JobStatus string

const (
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
)

// Job is a position published by a company.
type Job struct {
	ID             string    `json:"id" yaml:"id" mapstructure:"id"`
	CompanyID      string    `json:"company_id,omitempty" yaml:"company_id" mapstructure:"company_id"`
	Title          string    `json:"title,omitempty" yaml:"title" mapstructure:"title"`
	Description    string    `json:"description,omitempty" yaml:"description" mapstructure:"description"`
	Location       *string   `json:"location,omitempty" yaml:"location" mapstructure:"location"`
	RequiredSkills []string  `json:"required_skills,omitempty" yaml:"required_skills" mapstructure:"required_skills"`
	MinExperience  int       `json:"min_experience" yaml:"min_experience" mapstructure:"min_experience"`
	Status         JobStatus `json:"status,omitempty" yaml:"status" mapstructure:"status"`
}

// LocationText returns the location or an empty string when it is not set.
func (j *Job) LocationText() string {
	if j == nil || j.Location == nil {
		return ""
	}
	return *j.Location
}

func (j *Job) IsOpen() bool {
	return j != nil && strings.EqualFold(string(j.Status), string(JobOpen))
}

func (j *Job) GetStringField(name string) string {
	switch name {
	case JobIDField:
		return j.ID
	case JobCompanyIDField:
		return j.CompanyID
	default:
		return ""
	}
}

type Jobs struct {
	Items []*Job
}

func NewJobs(items ...*Job) *Jobs {
	return &Jobs{Items: items}
}

func (j *Jobs) Len() int {
	if j == nil {
		return 0
	}
	return len(j.Items)
}

func (j *Jobs) IDs() []string {
	ids := make([]string, 0, j.Len())
	for _, job := range j.all() {
		ids = append(ids, job.ID)
	}
	return ids
}

func (j *Jobs) FindByID(id string) *Job {
	for _, job := range j.all() {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Titles is used for interactive selection.
func (j *Jobs) Titles() []string {
	titles := make([]string, 0, j.Len())
	for _, job := range j.all() {
		titles = append(titles, job.ID+" "+job.Title)
	}
	return titles
}

// all returns the non-nil jobs.
func (j *Jobs) all() []*Job {
	if j == nil {
		return nil
	}
	jobs := make([]*Job, 0, len(j.Items))
	for _, job := range j.Items {
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// OpenOnly returns the open jobs in input order. The receiver is not modified.
func (j *Jobs) OpenOnly() *Jobs {
	open := &Jobs{}
	if j == nil {
		return open
	}
	for _, job := range j.Items {
		if job.IsOpen() {
			open.Items = append(open.Items, job)
		}
	}
	return open
}

// Exclude removes jobs whose field matches any of the targets, keeping order, and returns the removed ids.
// Nil entries are dropped.
func (j *Jobs) Exclude(name string, targets []string) []string {
	if j == nil {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[target] = struct{}{}
	}

	var removed []string
	kept := make([]*Job, 0, len(j.Items))
	for _, job := range j.all() {
		if _, ok := set[job.GetStringField(name)]; ok {
			removed = append(removed, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	j.Items = kept

	return removed
}

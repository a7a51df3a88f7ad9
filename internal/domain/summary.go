package domain

// CategoryCount is one ranked entry of a categorical breakdown. Entries are
// ordered by descending count; ties keep the order in which the label was
// first seen in the input.
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HistogramBucket is one fixed salary interval with its vacancy count.
type HistogramBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SalaryStats describes one salary sample. All point statistics are
// truncated to whole currency units, not rounded. Available is false when
// the sample is empty, in which case every other field is zero.
type SalaryStats struct {
	Available  bool              `json:"available"`
	Count      int               `json:"count"`
	Min        int               `json:"min"`
	Max        int               `json:"max"`
	Mean       int               `json:"avg"`
	Median     int               `json:"median"`
	MeanFrom   *int              `json:"from_avg"`
	MeanTo     *int              `json:"to_avg"`
	Histogram  []HistogramBucket `json:"distribution,omitempty"`
	Currencies []CategoryCount   `json:"currencies,omitempty"`
}

// EmployerStats holds the employer breakdown: the number of distinct
// employers plus the twenty most frequent ones.
type EmployerStats struct {
	Unique int             `json:"unique"`
	Top    []CategoryCount `json:"top_20"`
}

// SkillStats holds keyword mention counts over vacancy snippets, capped at
// the twenty most frequent, plus the number of distinct keywords matched.
type SkillStats struct {
	Top        []CategoryCount `json:"top_20"`
	TotalFound int             `json:"total_found"`
}

// AnalysisSummary is the immutable result of analyzing one vacancy batch.
// It is a plain data structure with no behavior; both the text report and
// the persistence layer consume it as-is.
type AnalysisSummary struct {
	Total              int                     `json:"total"`
	Salary             SalaryStats             `json:"salary"`
	SalaryByExperience map[string]*SalaryStats `json:"salary_by_experience"`
	Employers          EmployerStats           `json:"companies"`
	Experience         []CategoryCount         `json:"experience"`
	Employment         []CategoryCount         `json:"employment"`
	Schedule           []CategoryCount         `json:"schedule"`
	Skills             SkillStats              `json:"skills"`
}

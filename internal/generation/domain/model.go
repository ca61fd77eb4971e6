package domain

// CompanyInfo is the fixed structured record derived from a startup
// profile and sent to the generation backend.
type CompanyInfo struct {
	ProductType    string   `json:"product_type"`
	CompanyStage   string   `json:"company_stage"`
	TechStack      string   `json:"tech_stack,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	BusinessModel  string   `json:"business_model,omitempty"`
	StrategicFocus []string `json:"strategic_focus,omitempty"`
	CustomPrompt   string   `json:"custom_prompt,omitempty"`
}

// Metric is a single named business metric in a generated KPI system.
type Metric struct {
	Category      string `json:"category,omitempty"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Calculation   string `json:"calculation"`
	Importance    string `json:"importance"`
	SQLQuery      string `json:"sql_query,omitempty"`
	Visualization string `json:"visualization"`
	Benchmark     string `json:"benchmark"`
}

// Dashboard is a recommended grouping of generated metrics.
type Dashboard struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	IncludedMetrics []string `json:"included_metrics"`
}

// KPIContent is the structured payload of a successful generation.
type KPIContent struct {
	Metrics                  []Metric    `json:"metrics"`
	DashboardRecommendations []Dashboard `json:"dashboard_recommendations"`
	Summary                  string      `json:"summary"`
}

// KPISystemResponse is the generation backend's reply. In structured
// mode Content is set; in markdown mode RawResponse carries free text
// that the caller formats best-effort.
type KPISystemResponse struct {
	Success     bool        `json:"success"`
	Content     *KPIContent `json:"content,omitempty"`
	RawResponse string      `json:"raw_response,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// AIServiceStatus reports whether the generation backend is usable.
// Availability is advisory: generation is a best-effort enhancement,
// never a required side effect of saving a profile.
type AIServiceStatus struct {
	Service    string `json:"service"`
	Available  bool   `json:"available"`
	Deployment string `json:"deployment,omitempty"`
}

// SQLRequest asks the backend for a query implementing one metric on a
// given stack.
type SQLRequest struct {
	MetricName        string `json:"metric_name"`
	MetricCalculation string `json:"metric_calculation"`
	TechStack         string `json:"tech_stack"`
}

// SQLResponse carries the generated query text.
type SQLResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Output formats accepted by the generation backend.
const (
	FormatStructured = "structured"
	FormatMarkdown   = "markdown"
)

package skills

// vocabulary lists the lower-case keyword phrases searched for in vacancy
// snippets: languages, frameworks, data stores, infrastructure, methodology
// and language-proficiency terms. Matching is plain substring search, so
// very short entries (ml, ai, b2, c1) can also hit inside longer words;
// that looseness is part of the established counting behavior.
var vocabulary = []string{
	"python", "javascript", "typescript", "java", "c++", "c#", "go", "rust", "php", "ruby",
	"react", "vue", "angular", "node.js", "django", "flask", "fastapi", "spring", "laravel",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch", "kafka", "rabbitmq",
	"docker", "kubernetes", "aws", "azure", "gcp", "linux", "git", "ci/cd", "jenkins",
	"machine learning", "ml", "ai", "data science", "pytorch", "tensorflow", "pandas", "numpy",
	"rest api", "graphql", "microservices",
	"agile", "scrum", "kanban", "jira", "confluence",
	"english", "английский", "b2", "c1", "ielts",
}

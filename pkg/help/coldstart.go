package help

// ColdstartYAML is printed by "learnmap quickstart".
const ColdstartYAML = `# learnmap Quick Start

content_types:
  text: "Plain text, analysed as-is (default)"
  audio: "A transcript produced upstream, treated as text"
  html: "Raw HTML, reduced to readable text first"
  url: "A page address; the page is fetched, then treated as html"

output_formats:
  json: "AnalysisResult with summary, keyTopics, topicTree (default)"
  yaml: "Same fields, YAML encoded"
  markdown: "Human-readable document with the topic tree as nested bullets"

commands:
  analyze_text: |
    learnmap analyze --text "Law of Inertia: objects at rest stay at rest. Second Law: ..."

  analyze_file: |
    learnmap analyze --file notes.txt --format markdown

  analyze_page: |
    learnmap analyze --type url https://example.com/physics

  save_to_history: |
    learnmap --db learnmap.db analyze --file notes.txt --save

  list_history: |
    learnmap --db learnmap.db history list

  show_analysis: |
    learnmap --db learnmap.db history show 5 --format json

  render_pdf: |
    learnmap analyze --file notes.txt -o map.json && learnmap pdf --input map.json

  run_server: |
    learnmap serve --addr :5000

http_api:
  health: "GET /api/health"
  analyze: "POST /api/analyze {\"content\": \"...\", \"type\": \"text\"}"
  pdf: "POST /api/generate-pdf <AnalysisResult>"
  history: "GET /api/analyses?limit=N, GET /api/analyses/{id}, GET /api/analyses/{id}/pdf"

environment:
  OLLAMA_API_URL: "summarization endpoint (default http://localhost:11434)"
  OLLAMA_MODEL: "summarization model (default phi)"
  FRONTEND_URL: "allowed CORS origin (default *)"
  PORT: "listen port for serve"
  LOG_LEVEL: "debug, info, warn, error"
  LEARNMAP_DB: "history database path; empty disables history"

notes:
  - "Content must be at least 50 characters; only the first 1200 are analysed"
  - "If the model is unreachable the summary falls back to the first 200 characters"
`

package conf

type Bootstrap struct {
	Server *Server
	Radar  *Radar
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Radar struct {
	Llm     *LLM     `json:"llm"`
	Search  *Search  `json:"search"`
	Prompts *Prompts `json:"prompts"`
	Log     *Log     `json:"log"`
}

type LLM struct {
	Provider       string `json:"provider"`
	BaseUrl        string `json:"base_url"`
	ApiKey         string `json:"api_key"`
	Model          string `json:"model"`
	ReasoningModel string `json:"reasoning_model"`
	Timeout        int32  `json:"timeout"`
}

type Search struct {
	Provider     string   `json:"provider"`
	Tavily       *Tavily  `json:"tavily"`
	Searxng      *SearXNG `json:"searxng"`
	MaxResults   int32    `json:"max_results"`
	FetchContent bool     `json:"fetch_content"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

type Prompts struct {
	File string `json:"file"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

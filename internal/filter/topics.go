package filter

import "strings"

// topicAliases fold common request spellings onto canonical topics.
var topicAliases = map[string]string{
	"technology":              "tech",
	"artificial intelligence": "ai",
	"genai":                   "ai",
}

// TopicGeneral disables topic filtering entirely.
const TopicGeneral = "general"

// ExpandTopic resolves aliases and returns the keyword set for a
// topic. Unknown topics match on the topic string itself.
func ExpandTopic(topic string) []string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if canonical, ok := topicAliases[topic]; ok {
		topic = canonical
	}
	if keywords, ok := topicKeywords[topic]; ok {
		return keywords
	}
	return []string{topic}
}

// excludeKeywords reject an article outright regardless of topic
// match. The list is deliberate policy carried over unchanged; do not
// re-derive it.
var excludeKeywords = []string{
	"ukraine", "russia", "war", "paint", "painter", "painting",
}

// indianPublishers are domains whose articles are implicitly about
// India, so a location=india keyword check would only reject valid
// results.
var indianPublishers = map[string]struct{}{
	"timesofindia.indiatimes.com":    {},
	"indianexpress.com":              {},
	"thehindu.com":                   {},
	"hindustantimes.com":             {},
	"ndtv.com":                       {},
	"economictimes.indiatimes.com":   {},
	"livemint.com":                   {},
	"business-standard.com":          {},
	"news18.com":                     {},
	"indiatoday.in":                  {},
}

// topicKeywords expands a requested topic to related terms so that a
// query for "ai" also matches articles about models, vendors and
// tooling that never say "ai" verbatim.
var topicKeywords = map[string][]string{
	"ai": {
		"ai", "artificial intelligence", "machine learning", "deep learning",
		"neural network", "gpt", "llm", "large language model", "chatgpt",
		"claude", "gemini", "openai", "anthropic", "google ai", "ai model",
		"agent", "agentic", "generative ai", "transformer", "nlp",
		"natural language", "computer vision", "chatbot", "copilot",
		"ai assistant", "prompt engineering", "fine-tuning", "embedding",
		"video generation", "audio generation", "speech recognition",
		"google deepmind", "nvidia", "microsoft ai", "amazon ai", "apple intelligence",
		"meta ai", "baidu", "deepseek", "mistral", "adobe firefly", "hugging face",
		"sora", "runway", "midjourney", "stable diffusion", "diffusion model",
		"text to image", "text to video", "ai safety", "agi",
		"cursor", "windsurf", "github copilot", "codeium", "tabnine",
	},
	"tech": {
		"technology", "tech", "software", "hardware", "startup", "gadget",
		"smartphone", "laptop", "cloud", "cyber", "programming", "developer",
		"app", "web", "digital", "innovation", "tech industry", "tech news",
		"blockchain", "metaverse", "virtual reality", "augmented reality", "vr", "ar",
		"mobile", "tablet", "wearable", "smartwatch", "smart home", "iot",
		"internet of things", "5g", "6g", "wifi", "browser", "operating system",
		"android", "ios", "windows", "macos", "linux", "chrome", "safari",
		"data center", "server", "database", "api", "saas", "paas", "devops",
		"cybersecurity", "hacking", "malware", "ransomware", "phishing", "data breach",
		"silicon valley", "techcrunch", "product launch", "tech giant",
	},
	"cricket": {
		"cricket", "ipl", "test match", "odi", "t20", "bcci", "wicket",
		"batsman", "batter", "bowler", "innings", "stumps", "run", "six", "four",
		"cricket world cup", "virat kohli", "rohit sharma", "ms dhoni", "century",
		"half century", "hat trick", "lbw", "catch", "boundary", "pitch",
		"world cup", "asia cup", "border gavaskar trophy", "ashes", "icc",
		"champions trophy", "ranji trophy", "sachin tendulkar",
	},
	"finance": {
		"finance", "stock", "market", "investment", "banking", "rupee",
		"dollar", "share", "sensex", "nifty", "portfolio", "mutual fund",
		"dividend", "ipo", "trading", "financial", "economy", "economics",
		"fiscal", "budget", "commodity", "gold", "silver", "bond", "forex",
		"rbi", "reserve bank", "interest rate", "inflation", "gdp", "recession",
		"bull market", "bear market", "nasdaq", "dow jones", "bse", "nse",
		"hedge fund", "private equity", "venture capital", "fintech",
		"upi", "digital payment", "wallet", "tax", "gst", "income tax",
	},
	"sports": {
		"sports", "cricket", "football", "soccer", "tennis", "badminton",
		"hockey", "basketball", "volleyball", "athlete", "tournament",
		"championship", "medal", "olympics", "match", "game", "team",
		"player", "coach", "premier league", "la liga", "bundesliga",
		"nba", "nfl", "fifa", "uefa", "formula 1", "f1", "grand prix",
		"boxing", "mma", "ufc", "wrestling", "swimming", "marathon",
		"asian games", "commonwealth games", "world championship",
	},
	"politics": {
		"politics", "election", "parliament", "government", "minister",
		"political", "policy", "vote", "democracy", "law", "bill",
		"congress", "bjp", "lok sabha", "rajya sabha", "pm", "prime minister",
		"president", "cabinet", "opposition", "ruling party", "manifesto",
		"campaign", "rally", "mp", "mla", "governor", "chief minister",
		"supreme court", "high court", "judiciary", "legislation",
		"foreign policy", "diplomacy", "g20", "brics", "united nations",
	},
	"health": {
		"health", "medical", "doctor", "hospital", "disease", "vaccine",
		"covid", "pandemic", "wellness", "fitness", "nutrition", "medicine",
		"healthcare", "virus", "treatment", "patient", "surgery", "diagnosis",
		"mental health", "anxiety", "depression", "therapy", "counseling",
		"diet", "exercise", "yoga", "meditation", "workout", "gym",
		"cancer", "diabetes", "heart disease", "blood pressure", "pharma",
	},
	"entertainment": {
		"entertainment", "movie", "film", "cinema", "bollywood", "hollywood",
		"actor", "actress", "celebrity", "music", "concert", "album",
		"netflix", "amazon prime", "ott", "web series", "tv show",
		"box office", "premiere", "trailer", "award", "oscar", "grammy",
		"emmy", "golden globe", "filmfare", "director", "producer",
		"streaming", "disney", "hotstar", "youtube", "influencer", "viral",
	},
	"education": {
		"education", "school", "college", "university", "student", "teacher",
		"exam", "admission", "scholarship", "degree", "course", "learning",
		"neet", "jee", "upsc", "cbse", "icse", "academic", "graduation",
		"iit", "iim", "nit", "gate", "cat", "gmat", "gre", "board exam",
		"online learning", "edtech", "byju", "unacademy", "coaching",
	},
	"crypto": {
		"crypto", "cryptocurrency", "bitcoin", "btc", "ethereum", "eth",
		"blockchain", "web3", "nft", "defi", "token", "wallet", "mining",
		"altcoin", "stablecoin", "binance", "coinbase", "solana", "dogecoin",
		"smart contract", "dapp", "dao", "airdrop", "ico", "crypto exchange",
	},
	"startup": {
		"startup", "unicorn", "funding", "seed round", "series a", "series b",
		"venture capital", "vc", "angel investor", "accelerator", "incubator",
		"entrepreneur", "founder", "ceo", "cto", "pivot", "acquisition",
		"merger", "ipo", "valuation", "burn rate", "mvp", "scale up",
		"fintech", "edtech", "healthtech", "y combinator", "sequoia",
	},
	"gaming": {
		"gaming", "video game", "esports", "playstation", "xbox", "nintendo",
		"steam", "pc gaming", "mobile gaming", "pubg", "fortnite", "call of duty",
		"gta", "minecraft", "valorant", "league of legends", "dota",
		"twitch", "gamer", "console", "gpu", "graphics card", "ps5",
		"bgmi", "free fire", "gaming tournament",
	},
	"auto": {
		"auto", "automobile", "car", "bike", "motorcycle", "electric vehicle", "ev",
		"tesla", "tata", "mahindra", "maruti", "hyundai", "toyota", "honda",
		"bmw", "mercedes", "audi", "suv", "sedan", "hatchback",
		"petrol", "diesel", "hybrid", "charging station", "battery",
		"self driving", "autonomous", "car launch", "auto expo",
	},
	"travel": {
		"travel", "tourism", "vacation", "holiday", "flight", "airline",
		"hotel", "resort", "booking", "destination", "trip", "tour",
		"passport", "visa", "airport", "railway", "train", "cruise",
		"makemytrip", "airbnb", "oyo", "indigo", "air india", "travel advisory",
	},
	"weather": {
		"weather", "rain", "rainfall", "monsoon", "storm", "cyclone", "hurricane",
		"flood", "drought", "heatwave", "cold wave", "snow", "snowfall",
		"temperature", "forecast", "imd", "climate", "climate change",
		"global warming", "thunderstorm", "fog", "smog", "pollution", "aqi",
	},
	"realestate": {
		"real estate", "property", "housing", "apartment", "flat", "villa",
		"builder", "developer", "construction", "rera", "home loan",
		"mortgage", "rent", "tenant", "landlord", "commercial", "residential",
		"plot", "land", "infrastructure", "smart city", "affordable housing",
	},
	"jobs": {
		"jobs", "job", "employment", "hiring", "recruitment", "vacancy",
		"career", "resume", "interview", "salary", "layoff", "fired",
		"fresher", "remote work", "work from home", "hybrid",
		"linkedin", "naukri", "appraisal", "promotion", "internship",
		"placement", "campus recruitment", "gig economy", "freelance",
	},
}

// Package scrape extracts articles from publisher HTML: the listing
// scraper reads a homepage for candidate links, the deep scraper
// visits each article page for full content.
package scrape

// Selector lists are ordered by specificity and reflect the markup
// actually seen across configured publishers. Order matters.

// articleSelectors locate article containers on a listing page.
var articleSelectors = []string{
	"article",
	`[itemtype*="Article"]`,
	`[class*="post-"]:not([class*="post-nav"])`,
	`[class*="article-"]:not([class*="article-nav"])`,
	`[class*="entry-"]`,
	`[class*="story-"]`,
	`[class*="news-item"]`,
	`[class*="card-"]:has(h2, h3)`,
	".post",
	".article",
	".entry",
	".story",
	".news-card",
	"li:has(h2 a, h3 a)",
}

// titleSelectors locate the headline inside a container.
var titleSelectors = []string{
	"h1", "h2", "h3", "h4", `[class*="title"]`, `[class*="headline"]`,
}

// dateSelectors locate a publication date inside a container or page.
var dateSelectors = []string{
	"time[datetime]",
	"time",
	`[class*="date"]`,
	`[class*="time"]`,
	`[class*="published"]`,
	`[class*="posted"]`,
	`[itemprop="datePublished"]`,
	`[itemprop="dateCreated"]`,
}

// authorSelectors locate a byline on an article page.
var authorSelectors = []string{
	`[itemprop="author"]`,
	`[class*="author-name"]`,
	`[class*="byline"]`,
	".author",
	`[rel="author"]`,
}

// contentSelectors locate the main body on an article page.
var contentSelectors = []string{
	"article",
	`[itemprop="articleBody"]`,
	`[class*="article-body"]`,
	`[class*="article-content"]`,
	`[class*="post-content"]`,
	`[class*="entry-content"]`,
	`[class*="story-body"]`,
	`[class*="content-body"]`,
	".prose",
	"main",
	`[role="main"]`,
}

// strippedSelectors are removed from a listing page before extraction
// so navigation chrome cannot pollute titles and summaries.
const strippedSelectors = "script, style, nav, footer, aside, noscript"

// contentExcludeSelectors are removed from an article page before the
// body is gathered.
var contentExcludeSelectors = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript",
	`[class*="sidebar"]`, `[class*="comment"]`, `[class*="related"]`,
	`[class*="share"]`, `[class*="social"]`, `[class*="newsletter"]`,
	`[class*="advertisement"]`, `[class*="promo"]`, `[class*="author-bio"]`,
	`[class*="nav"]`, `[class*="menu"]`, `[class*="footer"]`,
}

// metaDateProps are the meta tag names checked for a publication date.
var metaDateProps = []string{
	"article:published_time", "og:published_time", "datePublished",
	"date", "DC.date.issued", "publish-date",
}

// junkPhrases disqualify a sentence from the generated summary.
var junkPhrases = []string{
	"click here", "read more", "subscribe", "sign up",
	"cookie", "privacy policy", "terms of service",
}

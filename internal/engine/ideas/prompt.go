package ideas

// LLM prompt templates.

// topicsPrompt extracts recurring topics from a channel's recent uploads.
// Args: current date, min topics, max topics, numbered video list.
const topicsPrompt = `You analyze YouTube channels. Identify the main topics this channel covers, based on its recent videos below.

Current date: %s

Respond with a JSON array of strings only (no markdown, no explanation), e.g. ["Home Automation", "Raspberry Pi"].

Rules:
- %d to %d topics
- each topic is 1-3 words, Title Case
- topics must be specific enough to search news and forums for
- no duplicates, no channel names

Videos:
%s`

// ideasPrompt synthesizes new video ideas from topics and current context.
// Args: current date, max ideas, topics, recent titles, news headlines, discussion threads.
const ideasPrompt = `You are a YouTube content strategist. Propose new video ideas for a channel, grounded in what is trending right now.

Current date: %s

Respond with a JSON array only (no markdown, no explanation), at most %d items:
[
  {"title": "Clickable video title", "thumbDesign": "What the thumbnail shows: subject, text overlay, colors", "videoIdea": "2-3 sentence pitch: angle, structure, why it will perform now"}
]

Rules:
- fit the channel's existing topics and style
- prefer angles tied to the news and discussions below when relevant
- do not repeat the channel's recent titles

Channel topics: %s

Recent titles:
%s

News:
%s

Discussions:
%s`

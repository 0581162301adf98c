package icon

// fallbackKeywords is used when no catalog is available. Order breaks ties.
var fallbackKeywords = []keywordEntry{
	{"atom.png", []string{"science", "chemistry", "physics", "STEM", "molecular", "research", "atomic", "nuclear", "lab"}},
	{"binary-code.png", []string{"programming", "coding", "computer", "binary", "digital", "technology", "software", "data"}},
	{"brackets.png", []string{"code", "programming", "development", "syntax", "HTML", "JavaScript", "web", "developer"}},
	{"brain.png", []string{"intelligence", "thinking", "cognitive", "psychology", "neuroscience", "mental", "learning", "knowledge"}},
	{"calculator.png", []string{"math", "calculation", "numbers", "accounting", "statistics", "arithmetic", "algebra", "finance"}},
	{"checkmark.png", []string{"complete", "done", "success", "verified", "achieved", "finished", "approved", "passed"}},
	{"clock.png", []string{"time", "management", "punctual", "deadline", "schedule", "timely", "efficient", "duration"}},
	{"cloud-service.png", []string{"cloud", "computing", "storage", "online", "SaaS", "AWS", "Azure", "infrastructure"}},
	{"code.png", []string{"programming", "software", "development", "coding", "script", "algorithm", "function", "engineer"}},
	{"color-palette.png", []string{"art", "design", "creative", "colors", "painting", "visual", "aesthetic", "graphics"}},
	{"crown.png", []string{"leader", "champion", "winner", "best", "top", "excellence", "master", "first"}},
	{"diamond.png", []string{"premium", "quality", "rare", "valuable", "exceptional", "brilliant", "precious", "elite"}},
	{"dna.png", []string{"biology", "genetics", "DNA", "life", "biotechnology", "medical", "research", "genome"}},
	{"energy.png", []string{"energy", "power", "physics", "renewable", "sustainability", "electric", "dynamic", "vigor"}},
	{"gear.png", []string{"engineering", "mechanical", "settings", "technical", "machinery", "process", "system", "configuration"}},
	{"gem.png", []string{"precious", "special", "unique", "valuable", "rare", "jewel", "treasure", "exceptional"}},
	{"globe.png", []string{"global", "world", "geography", "international", "earth", "culture", "diversity", "environment"}},
	{"goal.png", []string{"goal", "target", "objective", "achievement", "milestone", "purpose", "aim", "success"}},
	{"graduation-cap.png", []string{"graduation", "academic", "education", "degree", "diploma", "university", "college", "scholar"}},
	{"growth.png", []string{"growth", "progress", "improvement", "development", "advance", "evolve", "increase", "expand"}},
	{"handshake.png", []string{"collaboration", "teamwork", "partnership", "cooperation", "agreement", "networking", "deal", "alliance"}},
	{"ink-bottle.png", []string{"writing", "literature", "poetry", "creative", "author", "journalism", "essay", "composition"}},
	{"leadership.png", []string{"leader", "management", "guide", "direct", "organize", "command", "influence", "inspire"}},
	{"medal.png", []string{"medal", "award", "honor", "recognition", "prize", "achievement", "competition", "distinction"}},
	{"microscope.png", []string{"research", "laboratory", "biology", "analysis", "investigation", "microscopy", "study", "chemistry"}},
	{"music_note.png", []string{"music", "note", "melody", "rhythm", "composition", "performance", "audio", "song"}},
	{"presentation.png", []string{"presentation", "speaking", "communication", "teaching", "lecture", "seminar", "pitch", "demonstration"}},
	{"robot.png", []string{"robot", "AI", "automation", "robotics", "technology", "innovation", "machine", "artificial"}},
	{"shield.png", []string{"security", "protection", "safety", "defense", "cybersecurity", "guard", "secure", "trust"}},
	{"solution.png", []string{"solution", "solve", "answer", "resolve", "fix", "innovation", "breakthrough", "discovery"}},
	{"spaceship.png", []string{"space", "rocket", "aerospace", "exploration", "innovation", "astronomy", "future", "launch"}},
	{"speech_bubble.png", []string{"communication", "dialogue", "discussion", "chat", "conversation", "feedback", "talk", "message"}},
	{"star.png", []string{"star", "excellence", "outstanding", "favorite", "quality", "special", "top", "best"}},
	{"teamwork.png", []string{"team", "collaboration", "group", "together", "cooperative", "collective", "unity", "synergy"}},
	{"thumbs-up.png", []string{"approval", "positive", "good", "like", "agree", "encourage", "satisfied", "yes"}},
	{"trophy.png", []string{"trophy", "winner", "champion", "victory", "first", "competition", "prize", "tournament"}},
}

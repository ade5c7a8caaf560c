// Package catalog holds the static per-service questionnaires. The data is
// loaded once at startup into an engine.Registry and never mutated.
package catalog

import (
	"github.com/rishavrawat-ai/freelancer-sub000/internal/engine"
)

// Service names recognized by the registry.
const (
	WebsiteDevelopment = "Website Development"
	AppDevelopment     = "App Development"
	UIUXDesign         = "UI/UX Design"
	SEOOptimization    = "SEO Optimization"
)

var websiteDevelopment = &engine.Questionnaire{
	Service: WebsiteDevelopment,
	Questions: []engine.QuestionSpec{
		{
			Key:             "name",
			TriggerPatterns: []string{"name", "who am i talking"},
			Prompts: []string{
				"Hi! I'll help you scope your website and put together a quote. What's your name?",
				"Welcome! Let's get your website project scoped. May I know your name?",
			},
		},
		{
			Key:             "organization",
			TriggerPatterns: []string{"company", "brand", "organization", "business name", "startup"},
			Prompts: []string{
				"Nice to meet you, {name}! What's your company or brand called?",
				"Nice to meet you, {name}! Is there a company or brand name for this project?",
			},
		},
		{
			Key:             "description",
			TriggerPatterns: []string{"about the project", "describe", "what is it for"},
			Prompts: []string{
				"Tell me a bit about the website you have in mind. What should it do?",
				"What's the website for? A couple of lines about the idea is perfect.",
			},
		},
		{
			Key:             "website_type",
			TriggerPatterns: []string{"type of website", "kind of website", "kind of site"},
			Prompts: []string{
				"What type of website is this?",
				"Which of these best describes the website?",
			},
			Suggestions: []string{
				"E-commerce", "Business Website", "Portfolio", "Blog/News",
				"Landing Page", "Booking/Services",
			},
		},
		{
			Key:             "tech",
			TriggerPatterns: []string{"tech", "stack", "platform", "technology", "built on"},
			Prompts: []string{
				"Any preference on the platform or tech stack?",
				"Which technology would you like the site built on?",
			},
			Suggestions: []string{
				"WordPress", "Shopify", "Custom Shopify (Hydrogen)",
				"Custom Code (React + Node.js)", "Next.js", "Not sure yet",
			},
		},
		{
			Key:             "pages",
			TriggerPatterns: []string{"pages", "sections", "screens"},
			Prompts: []string{
				"Which pages or sections will the site need? Pick all that apply.",
				"Let's list the pages. Select everything you'll need.",
			},
			Suggestions: []string{
				"Home", "About", "Shop/Store", "Product Pages", "Cart/Checkout",
				"Account/Login", "Admin Dashboard", "Blog", "Gallery", "Contact",
				"FAQ", "Wishlist", "Reviews", "Search", "None",
			},
			MultiSelect: true,
			MaxSelect:   12,
		},
		{
			Key:             "integrations",
			TriggerPatterns: []string{"integration", "payment", "whatsapp", "razorpay", "stripe"},
			Prompts: []string{
				"Any third-party integrations to plan for?",
				"Do you need integrations like payments or chat?",
			},
			Suggestions: []string{
				"Payment Gateway (Razorpay/Stripe)", "WhatsApp Chat",
				"Email/Newsletter", "Analytics", "Maps", "CRM", "None",
			},
			MultiSelect: true,
			MaxSelect:   6,
		},
		{
			Key:             "design",
			TriggerPatterns: []string{"design", "figma", "mockup", "wireframe"},
			Prompts: []string{
				"Do you already have a design, or should we create one?",
				"How are we placed on design?",
			},
			Suggestions: []string{
				"Yes, design is ready", "No, need design from scratch",
				"Have some references",
			},
		},
		{
			Key:             "domain",
			TriggerPatterns: []string{"domain", "hosting", "godaddy"},
			Prompts: []string{
				"Do you own a domain already?",
				"What about the domain? Already purchased?",
			},
			Suggestions: []string{
				"Yes, I have a domain", "No domain yet", "Need help buying one",
			},
		},
		{
			Key:             "budget",
			TriggerPatterns: []string{"budget", "cost", "price", "charges", "how much"},
			Prompts: []string{
				"What budget do you have in mind for this build?",
				"Let's talk numbers. What's your budget for the website?",
			},
			Suggestions: []string{
				"Under ₹30,000", "₹30,000 - ₹80,000", "₹80,000 - ₹1,50,000",
				"₹1,50,000+", "Flexible",
			},
		},
		{
			Key:             "timeline",
			TriggerPatterns: []string{"timeline", "deadline", "delivery", "how long", "when do"},
			Prompts: []string{
				"And the timeline? When would you like it live?",
				"By when do you need the site delivered?",
			},
			Suggestions: []string{
				"2-3 weeks", "1 month", "2-3 months", "ASAP", "Flexible",
			},
		},
	},
}

var appDevelopment = &engine.Questionnaire{
	Service: AppDevelopment,
	Questions: []engine.QuestionSpec{
		{
			Key:             "name",
			TriggerPatterns: []string{"name"},
			Prompts: []string{
				"Hi! Let's scope your app. What's your name?",
				"Welcome! I'll help you plan the app. May I know your name?",
			},
		},
		{
			Key:             "organization",
			TriggerPatterns: []string{"company", "brand", "organization", "business name"},
			Prompts: []string{
				"Nice to meet you, {name}! What's the company or product called?",
			},
		},
		{
			Key:             "description",
			TriggerPatterns: []string{"about the app", "describe", "what does it do"},
			Prompts: []string{
				"What should the app do? A short description works.",
				"Tell me about the app idea in a couple of lines.",
			},
		},
		{
			Key:             "platforms",
			TriggerPatterns: []string{"platform", "android", "ios"},
			Prompts: []string{
				"Which platforms are we targeting?",
			},
			Suggestions: []string{"Android", "iOS", "Both Android & iOS", "Web App"},
			MultiSelect: true,
			MaxSelect:   3,
		},
		{
			Key:             "features",
			TriggerPatterns: []string{"features", "functionality", "modules"},
			Prompts: []string{
				"Which features will the app need? Pick all that apply.",
			},
			Suggestions: []string{
				"User Accounts", "Push Notifications", "Payments", "Chat",
				"Maps/Location", "Admin Dashboard", "Offline Mode", "None",
			},
			MultiSelect: true,
			MaxSelect:   8,
		},
		{
			Key:             "design",
			TriggerPatterns: []string{"design", "figma", "mockup"},
			Prompts: []string{
				"Do you already have app designs, or should we create them?",
			},
			Suggestions: []string{
				"Yes, design is ready", "No, need design from scratch",
				"Have some references",
			},
		},
		{
			Key:             "budget",
			TriggerPatterns: []string{"budget", "cost", "price", "how much"},
			Prompts: []string{
				"What budget range are you working with?",
			},
			Suggestions: []string{
				"Under ₹50,000", "₹50,000 - ₹1,50,000", "₹1,50,000 - ₹5,00,000",
				"₹5,00,000+", "Flexible",
			},
		},
		{
			Key:             "timeline",
			TriggerPatterns: []string{"timeline", "deadline", "delivery", "how long"},
			Prompts: []string{
				"When do you need the app launched?",
			},
			Suggestions: []string{"1 month", "2-3 months", "3-6 months", "ASAP", "Flexible"},
		},
	},
}

var uiuxDesign = &engine.Questionnaire{
	Service: UIUXDesign,
	Questions: []engine.QuestionSpec{
		{
			Key:             "name",
			TriggerPatterns: []string{"name"},
			Prompts: []string{
				"Hi! Let's plan your design project. What's your name?",
			},
		},
		{
			Key:             "organization",
			TriggerPatterns: []string{"company", "brand", "organization"},
			Prompts: []string{
				"Nice to meet you, {name}! Which company or product is this for?",
			},
		},
		{
			Key:             "description",
			TriggerPatterns: []string{"about the project", "describe"},
			Prompts: []string{
				"What are we designing? Tell me about the product.",
			},
		},
		{
			Key:             "design_type",
			TriggerPatterns: []string{"type of design", "deliverable"},
			Prompts: []string{
				"What kind of design work do you need?",
			},
			Suggestions: []string{
				"Website UI", "Mobile App UI", "Dashboard UI", "Brand/Logo",
				"UX Audit", "Design System",
			},
			MultiSelect: true,
			MaxSelect:   4,
		},
		{
			Key:             "screens",
			TriggerPatterns: []string{"screens", "pages", "how many"},
			Prompts: []string{
				"Roughly how many screens or pages are we designing?",
			},
			Suggestions: []string{"1-5", "6-15", "16-30", "30+", "Not sure yet"},
		},
		{
			Key:             "budget",
			TriggerPatterns: []string{"budget", "cost", "price"},
			Prompts: []string{
				"What budget do you have in mind for the design work?",
			},
			Suggestions: []string{
				"Under ₹20,000", "₹20,000 - ₹50,000", "₹50,000 - ₹1,00,000",
				"₹1,00,000+", "Flexible",
			},
		},
		{
			Key:             "timeline",
			TriggerPatterns: []string{"timeline", "deadline", "delivery"},
			Prompts: []string{
				"When do you need the designs delivered?",
			},
			Suggestions: []string{"1-2 weeks", "1 month", "2 months", "ASAP", "Flexible"},
		},
	},
}

var seoOptimization = &engine.Questionnaire{
	Service: SEOOptimization,
	Questions: []engine.QuestionSpec{
		{
			Key:             "name",
			TriggerPatterns: []string{"name"},
			Prompts: []string{
				"Hi! Let's look at your SEO goals. What's your name?",
			},
		},
		{
			Key:             "organization",
			TriggerPatterns: []string{"company", "brand", "organization"},
			Prompts: []string{
				"Nice to meet you, {name}! Which business is this for?",
			},
		},
		{
			Key:             "website_url",
			TriggerPatterns: []string{"url", "website address", "link"},
			Prompts: []string{
				"What's the website we'll be optimizing? Drop the URL.",
			},
		},
		{
			Key:             "goals",
			TriggerPatterns: []string{"goals", "rank", "traffic", "keywords"},
			Prompts: []string{
				"What are you hoping to achieve? Pick all that apply.",
			},
			Suggestions: []string{
				"Rank for keywords", "More organic traffic", "Local SEO",
				"Technical SEO fixes", "Content strategy", "Link building",
			},
			MultiSelect: true,
			MaxSelect:   6,
		},
		{
			Key:             "budget",
			TriggerPatterns: []string{"budget", "cost", "price", "monthly"},
			Prompts: []string{
				"What monthly budget are you planning for SEO?",
			},
			Suggestions: []string{
				"Under ₹10,000/mo", "₹10,000 - ₹25,000/mo", "₹25,000+/mo", "Flexible",
			},
		},
		{
			Key:             "timeline",
			TriggerPatterns: []string{"timeline", "how long", "duration"},
			Prompts: []string{
				"How long an engagement are you thinking of?",
			},
			Suggestions: []string{"3 months", "6 months", "Ongoing", "Flexible"},
		},
	},
}

var defaultQuestionnaire = &engine.Questionnaire{
	Service: "default",
	Questions: []engine.QuestionSpec{
		{
			Key:             "name",
			TriggerPatterns: []string{"name"},
			Prompts: []string{
				"Hi! I'll help you scope this project. What's your name?",
			},
		},
		{
			Key:             "organization",
			TriggerPatterns: []string{"company", "brand", "organization"},
			Prompts: []string{
				"Nice to meet you, {name}! Is there a company or brand name for this?",
			},
		},
		{
			Key:             "description",
			TriggerPatterns: []string{"about the project", "describe"},
			Prompts: []string{
				"Tell me about the project. What do you need built?",
			},
		},
		{
			Key:             "budget",
			TriggerPatterns: []string{"budget", "cost", "price"},
			Prompts: []string{
				"What budget do you have in mind?",
			},
			Suggestions: []string{"Under ₹25,000", "₹25,000 - ₹1,00,000", "₹1,00,000+", "Flexible"},
		},
		{
			Key:             "timeline",
			TriggerPatterns: []string{"timeline", "deadline", "delivery"},
			Prompts: []string{
				"And the timeline? When do you need it done?",
			},
			Suggestions: []string{"2-3 weeks", "1 month", "2-3 months", "ASAP", "Flexible"},
		},
	},
}

// NewRegistry builds the read-only questionnaire registry used by the
// engine. Unrecognized service names resolve to the default questionnaire.
func NewRegistry() *engine.Registry {
	return engine.NewRegistry(
		defaultQuestionnaire,
		websiteDevelopment,
		appDevelopment,
		uiuxDesign,
		seoOptimization,
	)
}

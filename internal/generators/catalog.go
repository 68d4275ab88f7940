package generators

import "github.com/Windi-Fikriyansyah/joki_seeder/internal/models"

type title struct {
	name string
	core []string
}

type category struct {
	name   string
	weight float64
	skills []string
	titles []title
	// base hourly rate per experience level, USD
	rates    map[models.ExperienceLevel]float64
	projects []string
}

var categories = []category{
	{
		name:   "Web Development",
		weight: 30,
		skills: []string{"JavaScript", "TypeScript", "React", "Vue.js", "Node.js", "Go", "PostgreSQL", "HTML", "CSS", "GraphQL", "REST APIs", "Docker"},
		titles: []title{
			{"Full Stack Developer", []string{"JavaScript", "Node.js", "React"}},
			{"Backend Engineer", []string{"Go", "PostgreSQL", "REST APIs"}},
			{"Frontend Developer", []string{"TypeScript", "React", "CSS"}},
		},
		rates: map[models.ExperienceLevel]float64{
			models.LevelJunior: 30, models.LevelMid: 55, models.LevelSenior: 90, models.LevelExpert: 135,
		},
		projects: []string{"E-commerce storefront", "Customer portal", "Booking platform", "Internal admin dashboard", "Marketing site rebuild", "Payment API integration"},
	},
	{
		name:   "Mobile Development",
		weight: 15,
		skills: []string{"Swift", "Kotlin", "Flutter", "Dart", "React Native", "Firebase", "iOS", "Android", "SQLite"},
		titles: []title{
			{"iOS Developer", []string{"Swift", "iOS"}},
			{"Android Developer", []string{"Kotlin", "Android"}},
			{"Cross-platform Mobile Developer", []string{"Flutter", "Dart", "Firebase"}},
		},
		rates: map[models.ExperienceLevel]float64{
			models.LevelJunior: 32, models.LevelMid: 60, models.LevelSenior: 95, models.LevelExpert: 140,
		},
		projects: []string{"Fitness tracking app", "Food delivery app", "Field service app", "Loyalty program app", "Telehealth app"},
	},
	{
		name:   "Data Science",
		weight: 10,
		skills: []string{"Python", "Pandas", "SQL", "Machine Learning", "TensorFlow", "Statistics", "Data Visualization", "Spark", "Power BI"},
		titles: []title{
			{"Data Scientist", []string{"Python", "Machine Learning", "Statistics"}},
			{"Data Analyst", []string{"SQL", "Data Visualization"}},
			{"ML Engineer", []string{"Python", "TensorFlow"}},
		},
		rates: map[models.ExperienceLevel]float64{
			models.LevelJunior: 35, models.LevelMid: 65, models.LevelSenior: 105, models.LevelExpert: 150,
		},
		projects: []string{"Churn prediction model", "Sales forecasting", "Recommendation engine", "BI dashboard", "Data pipeline audit"},
	},
	{
		name:   "Design",
		weight: 15,
		skills: []string{"Figma", "UI Design", "UX Research", "Prototyping", "Adobe XD", "Illustrator", "Photoshop", "Design Systems", "Branding"},
		titles: []title{
			{"UI/UX Designer", []string{"Figma", "UI Design", "UX Research"}},
			{"Product Designer", []string{"Figma", "Prototyping"}},
			{"Brand Designer", []string{"Illustrator", "Branding"}},
		},
		rates: map[models.ExperienceLevel]float64{
			models.LevelJunior: 25, models.LevelMid: 45, models.LevelSenior: 75, models.LevelExpert: 120,
		},
		projects: []string{"Mobile app redesign", "Design system", "Logo and brand kit", "Landing page design", "Onboarding flow"},
	},
	{
		name:   "Writing",
		weight: 10,
		skills: []string{"Copywriting", "Technical Writing", "Editing", "SEO Writing", "Content Strategy", "Proofreading", "Blogging"},
		titles: []title{
			{"Content Writer", []string{"Copywriting", "Blogging"}},
			{"Technical Writer", []string{"Technical Writing", "Editing"}},
		},
		rates: map[models.ExperienceLevel]float64{
			models.LevelJunior: 18, models.LevelMid: 32, models.LevelSenior: 55, models.LevelExpert: 90,
		},
		projects: []string{"API documentation", "Blog content series", "Product descriptions", "White paper", "Website copy"},
	},
	{
		name:   "Marketing",
		weight: 10,
		skills: []string{"SEO", "Google Ads", "Social Media", "Email Marketing", "Analytics", "Content Marketing", "Conversion Optimization"},
		titles: []title{
			{"Digital Marketer", []string{"SEO", "Google Ads"}},
			{"Social Media Manager", []string{"Social Media", "Content Marketing"}},
		},
		rates: map[models.ExperienceLevel]float64{
			models.LevelJunior: 22, models.LevelMid: 40, models.LevelSenior: 65, models.LevelExpert: 105,
		},
		projects: []string{"SEO audit", "Paid search campaign", "Newsletter setup", "Social media launch", "Conversion funnel review"},
	},
	{
		name:   "DevOps",
		weight: 10,
		skills: []string{"AWS", "Kubernetes", "Terraform", "Docker", "CI/CD", "Linux", "Prometheus", "GCP", "Ansible"},
		titles: []title{
			{"DevOps Engineer", []string{"Docker", "CI/CD", "Linux"}},
			{"Cloud Architect", []string{"AWS", "Terraform"}},
			{"Site Reliability Engineer", []string{"Kubernetes", "Prometheus"}},
		},
		rates: map[models.ExperienceLevel]float64{
			models.LevelJunior: 38, models.LevelMid: 70, models.LevelSenior: 110, models.LevelExpert: 160,
		},
		projects: []string{"Kubernetes migration", "CI pipeline setup", "Cloud cost review", "Monitoring stack", "Infrastructure as code"},
	},
}

// generalSkills are added once a freelancer has enough years behind them.
var generalSkills = []string{"Git", "Agile", "Code Review", "Client Communication", "Project Management", "Mentoring", "Technical Leadership"}

func categoryWeights() []weighted[*category] {
	out := make([]weighted[*category], len(categories))
	for i := range categories {
		out[i] = weighted[*category]{&categories[i], categories[i].weight}
	}
	return out
}

func categoryByName(name string) *category {
	for i := range categories {
		if categories[i].name == name {
			return &categories[i]
		}
	}
	return &categories[0]
}

type location struct {
	name       string
	multiplier float64
}

var locations = []location{
	{"San Francisco, USA", 1.4},
	{"New York, USA", 1.35},
	{"London, UK", 1.25},
	{"Sydney, Australia", 1.15},
	{"Toronto, Canada", 1.1},
	{"Berlin, Germany", 1.1},
	{"Remote", 1.0},
	{"Warsaw, Poland", 0.8},
	{"Sao Paulo, Brazil", 0.7},
	{"Jakarta, Indonesia", 0.6},
	{"Bandung, Indonesia", 0.55},
	{"Bangalore, India", 0.55},
	{"Manila, Philippines", 0.55},
	{"Lagos, Nigeria", 0.5},
}

var experienceWeights = []weighted[models.ExperienceLevel]{
	{models.LevelJunior, 20},
	{models.LevelMid, 40},
	{models.LevelSenior, 30},
	{models.LevelExpert, 10},
}

// experienceYears is the inclusive range of years per level.
var experienceYears = map[models.ExperienceLevel][2]int{
	models.LevelJunior: {0, 2},
	models.LevelMid:    {3, 5},
	models.LevelSenior: {6, 9},
	models.LevelExpert: {10, 20},
}

var availabilityWeights = []weighted[models.Availability]{
	{models.AvailabilityFullTime, 45},
	{models.AvailabilityPartTime, 35},
	{models.AvailabilityAsNeeded, 15},
	{models.AvailabilityUnavailable, 5},
}

var languages = []string{"English", "Indonesian", "Spanish", "German", "French", "Portuguese", "Mandarin", "Hindi"}

var proficiencies = []string{"native", "fluent", "conversational", "basic"}

var degrees = []string{"BSc", "BA", "MSc", "MBA", "Diploma"}

var universities = []string{"Institut Teknologi Bandung", "Universitas Indonesia", "University of Toronto", "Technical University of Munich", "University of Melbourne", "State University"}

var certifications = map[string][]string{
	"Web Development":    {"AWS Certified Developer", "Meta Front-End Developer"},
	"Mobile Development": {"Google Associate Android Developer", "Apple Swift Certification"},
	"Data Science":       {"TensorFlow Developer Certificate", "Google Data Analytics"},
	"Design":             {"Google UX Design", "Adobe Certified Professional"},
	"Writing":            {"Content Marketing Certification"},
	"Marketing":          {"Google Ads Certification", "HubSpot Inbound Marketing"},
	"DevOps":             {"Certified Kubernetes Administrator", "HashiCorp Terraform Associate"},
}

var projectDescriptions = []string{
	"We are looking for an experienced freelancer to deliver %s. Scope includes planning, implementation and handover documentation.",
	"Our team needs help with %s. You will work with our product lead and ship in small, reviewable increments.",
	"Seeking a reliable specialist for %s. Please share relevant past work in your proposal.",
}

var coverLetters = []string{
	"Hi, I have delivered similar work for %[2]d clients and can start right away. My plan for %[1]s is to agree on milestones first and demo progress weekly.",
	"Hello! %[1]s is squarely in my area. Across %[2]d past engagements I have kept every project on schedule and documented.",
	"I read your brief for %[1]s carefully. With %[2]d comparable projects behind me I can propose a clear plan and a fixed timeline.",
}

var milestoneNames = []string{"Discovery and planning", "Design", "Core implementation", "Integration and testing", "Launch and handover"}

var bios = []string{
	"%s with %d years of experience helping teams ship reliable products.",
	"Independent %s. %d years in the field, focused on clear communication and clean delivery.",
	"%s who enjoys hard problems. %d years of hands-on experience with startups and agencies.",
}

type reviewContent struct {
	titles   []string
	comments []string
}

// reviewCatalog is keyed by direction, then by rating bucket.
var reviewCatalog = map[models.ReviewDirection]map[string]reviewContent{
	models.ClientToFreelancer: {
		"positive": {
			titles:   []string{"Outstanding work", "Highly recommended", "Great collaboration"},
			comments: []string{"Delivered everything on time and communicated clearly throughout.", "Exceeded expectations. Will hire again.", "Very professional and proactive about edge cases."},
		},
		"neutral": {
			titles:   []string{"Solid delivery", "Got the job done"},
			comments: []string{"Work was acceptable, a few revisions were needed.", "Decent result, communication could be faster."},
		},
		"negative": {
			titles:   []string{"Disappointing", "Missed expectations"},
			comments: []string{"Deadlines slipped and quality was uneven.", "Required a lot of follow-up to finish the scope."},
		},
	},
	models.FreelancerToClient: {
		"positive": {
			titles:   []string{"Great client", "Clear requirements", "Pleasure to work with"},
			comments: []string{"Responsive, clear about goals and paid promptly.", "Well organised brief and quick feedback.", "Respectful of scope and timelines."},
		},
		"neutral": {
			titles:   []string{"Okay experience", "Reasonable client"},
			comments: []string{"Requirements changed a few times but it worked out.", "Feedback was sometimes slow."},
		},
		"negative": {
			titles:   []string{"Difficult engagement", "Unclear scope"},
			comments: []string{"Scope kept growing without adjustments to the budget.", "Hard to reach and slow to approve milestones."},
		},
	},
}

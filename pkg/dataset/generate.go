package dataset

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// template describes one family of synthetic emails sharing senders,
// subjects, and register.
type template struct {
	subjects       []string
	senders        []string
	bodies         []string
	tone           string
	formality      string
	responseLength string
}

// ============================================================================
// EMAIL TEMPLATES BY CATEGORY
// ============================================================================

var workTemplates = map[string]template{
	"Project Alpha": {
		subjects: []string{
			"Project Alpha Status Update",
			"Alpha Milestone Review",
			"Q%d Alpha Planning",
			"Alpha Team Sync - %s",
			"Re: Alpha Deliverables",
		},
		senders: []string{"john.smith@company.com", "sarah.jones@company.com", "mike.chen@company.com"},
		bodies: []string{
			"Hi team,\n\nCan you provide a status update on Project Alpha? We need to review progress before the quarterly planning meeting.\n\nSpecifically:\n- Current milestone completion\n- Any blockers\n- Projected completion date\n\nThanks,\n%s",
			"Hello,\n\nI wanted to touch base regarding the Alpha project timeline. Are we still on track for the end of month delivery?\n\nLet me know if there are any concerns.\n\nBest regards,\n%s",
			"Team,\n\nGreat progress on Alpha this week! A few items need attention:\n\n1. Code review for feature X\n2. Testing environment setup\n3. Documentation updates\n\nPlease update the tracker by EOD.\n\n%s",
		},
		tone:           "professional",
		formality:      "high",
		responseLength: "medium",
	},
	"Project Beta": {
		subjects: []string{
			"Beta Launch Timeline",
			"Beta Bug Report - Priority",
			"Re: Beta Testing Feedback",
			"Beta Deployment Plan",
			"Quick Beta Question",
		},
		senders: []string{"emily.davis@company.com", "robert.wilson@company.com", "lisa.brown@company.com"},
		bodies: []string{
			"Hi,\n\nWe found a critical bug in Beta during testing. Can you take a look?\n\nSteps to reproduce:\n1. ...\n2. ...\n\nIt's blocking our launch. Please prioritize.\n\nThanks,\n%s",
			"Hello team,\n\nBeta testing is going well overall. Some feedback from users:\n\n- Feature Y is confusing\n- Performance is great\n- UI needs polish\n\nLet's discuss in tomorrow's standup.\n\n%s",
			"Quick question about Beta - what's the status of the API integration?\n\nNeed to update stakeholders by end of day.\n\nThanks!\n%s",
		},
		tone:           "professional",
		formality:      "medium",
		responseLength: "brief",
	},
	"Meetings": {
		subjects: []string{
			"Meeting Invitation: Team Sync",
			"Calendar: Weekly Standup",
			"Reschedule Request - 1:1",
			"Meeting Notes - %s",
			"Can we meet this week?",
		},
		senders: []string{"calendar@company.com", "admin@company.com", "boss@company.com"},
		bodies: []string{
			"Hi,\n\nLet's schedule our weekly 1:1. When works for you this week?\n\nI have openings:\n- Tuesday 2pm\n- Wednesday 10am\n- Thursday 3pm\n\nLet me know!\n\n%s",
			"Team,\n\nWeekly standup is tomorrow at 9am. Please come prepared with:\n\n- What you completed\n- What you're working on\n- Any blockers\n\nSee you then!\n%s",
			"Need to reschedule our meeting today - something came up. Can we do tomorrow same time?\n\nSorry for the inconvenience!\n\n%s",
		},
		tone:           "professional",
		formality:      "medium",
		responseLength: "brief",
	},
}

var hockeyTemplates = map[string]template{
	"Team A": {
		subjects: []string{
			"Practice this Tuesday",
			"Game Schedule Update",
			"Team A Jersey Orders",
			"Re: Playoff roster",
			"Who's in for Sunday?",
		},
		senders: []string{"coach@team-a.com", "captain@team-a.com", "john@team-a.com"},
		bodies: []string{
			"Hey team!\n\nPractice is on Tuesday at 7pm. Please confirm if you're coming.\n\nWe'll be working on power plays.\n\nSee you on the ice!\n%s",
			"Hi everyone,\n\nJust got the updated game schedule. We play Saturday at 8pm instead of 7pm.\n\nDon't be late!\n\nCheers,\n%s",
			"Quick question - are you available for Sunday's game? Need to confirm the roster.\n\nLet me know ASAP!\n\n%s",
		},
		tone:           "casual",
		formality:      "low",
		responseLength: "brief",
	},
	"Team B": {
		subjects: []string{
			"Team B - Tournament Registration",
			"Fundraiser This Weekend",
			"New Player Introduction",
			"Equipment Check",
			"Parking Info for Game",
		},
		senders: []string{"manager@team-b.com", "treasurer@team-b.com", "dave@team-b.com"},
		bodies: []string{
			"Hey guys,\n\nWe're doing a fundraiser this weekend at the arena. Can you help out for an hour or two?\n\nShifts available:\n- Saturday 10am-12pm\n- Saturday 2pm-4pm\n- Sunday 1pm-3pm\n\nThanks!\n%s",
			"Hi all,\n\nPlease bring your equipment for inspection next practice. League requires it.\n\nDon't forget!\n\n%s",
			"FYI - parking is limited for tomorrow's game. Arrive early or carpool.\n\nSee you there!\n%s",
		},
		tone:           "casual",
		formality:      "low",
		responseLength: "brief",
	},
}

var personalTemplates = map[string]template{
	"Family": {
		subjects: []string{
			"Thanksgiving Plans",
			"Mom's Birthday",
			"Re: Family Reunion",
			"Photos from last weekend",
			"Checking in",
		},
		senders: []string{"mom@family.com", "dad@family.com", "sister@family.com", "brother@family.com"},
		bodies: []string{
			"Hi sweetie,\n\nWhat are your plans for Thanksgiving? We'd love to have you over. Let me know if you can make it!\n\nLove,\nMom",
			"Hey!\n\nSaw the photos from your vacation - looks amazing! How was the trip?\n\nWe should catch up soon.\n\nLove,\n%s",
			"Hi,\n\nJust checking in to see how you're doing. It's been a while since we talked!\n\nCall me when you get a chance.\n\n%s",
		},
		tone:           "warm",
		formality:      "low",
		responseLength: "medium",
	},
	"Friends": {
		subjects: []string{
			"Drinks this Friday?",
			"Re: Weekend plans",
			"Check out this article",
			"Birthday party invitation",
			"Long time no see!",
		},
		senders: []string{"alex@gmail.com", "jamie@gmail.com", "chris@gmail.com", "taylor@gmail.com"},
		bodies: []string{
			"Hey!\n\nWant to grab drinks Friday night? Haven't seen you in forever!\n\nLet me know if you're free.\n\nCheers,\n%s",
			"Dude,\n\nI'm having a birthday party next Saturday. You better be there!\n\nDetails:\n- My place\n- 7pm\n- Bring snacks\n\nSee you then!\n%s",
			"Yo,\n\nCheck out this article I found - thought you'd find it interesting.\n\n[link]\n\nLet me know what you think!\n\n%s",
		},
		tone:           "casual",
		formality:      "low",
		responseLength: "brief",
	},
}

var flatTemplates = map[string]template{
	"Finance": {
		subjects: []string{
			"Your monthly statement is ready",
			"Payment due reminder",
			"Investment update - %s",
			"Credit card transaction alert",
			"Account activity summary",
		},
		senders: []string{"noreply@bank.com", "statements@creditcard.com", "alerts@investment.com"},
		bodies: []string{
			"Your monthly statement for account ending in 1234 is now available.\n\nLogin to view: [link]\n\nIf you have questions, contact support.\n\n%s",
			"This is a reminder that your payment of $250.00 is due soon.\n\nPlease ensure sufficient funds in your account.\n\nThank you,\n%s",
			"Your portfolio performance this month:\n\n- Total value: $XX,XXX\n- Monthly change: +2.3%%\n- YTD return: +8.1%%\n\nView details: [link]\n\n%s",
		},
		tone:           "formal",
		formality:      "high",
		responseLength: "none",
	},
	"Shopping": {
		subjects: []string{
			"Your order has shipped!",
			"Order confirmation - #%d",
			"20%% off sale this weekend",
			"Product back in stock",
			"Your package is out for delivery",
		},
		senders: []string{"orders@amazon.com", "shipping@store.com", "deals@shop.com"},
		bodies: []string{
			"Good news! Your order has shipped.\n\nTracking number: 1Z999AA10123456784\n\nTrack your package: [link]\n\nThanks for shopping with us!\n%s",
			"Thank you for your order!\n\nTotal: $XX.XX\n\nYou'll receive a shipping notification soon.\n\n%s",
			"Flash sale! 20%% off everything this weekend only.\n\nUse code: SAVE20\n\nShop now: [link]\n\nHappy shopping!\n%s",
		},
		tone:           "friendly",
		formality:      "medium",
		responseLength: "none",
	},
	"Organizational": {
		subjects: []string{
			"Important: Policy Update",
			"Company-wide announcement",
			"Benefits enrollment reminder",
			"Office closure notice",
			"New employee onboarding",
		},
		senders: []string{"hr@company.com", "ceo@company.com", "admin@company.com"},
		bodies: []string{
			"Dear team,\n\nWe're updating our remote work policy.\n\nKey changes:\n- ...\n- ...\n\nFull details attached. Please review and acknowledge.\n\nThanks,\nHR Team",
			"Team,\n\nI'm excited to announce that we're opening a new office in Seattle!\n\nThis expansion represents significant growth for our company.\n\nMore details to come.\n\nBest,\n%s",
			"Reminder: Benefits enrollment closes soon.\n\nPlease complete your elections in the portal.\n\nQuestions? Contact HR.\n\n%s",
		},
		tone:           "formal",
		formality:      "high",
		responseLength: "acknowledgment",
	},
	"Travel": {
		subjects: []string{
			"Flight confirmation - %s",
			"Hotel reservation confirmed",
			"Check-in reminder",
			"Travel itinerary for %s",
			"Booking modification confirmation",
		},
		senders: []string{"noreply@airline.com", "reservations@hotel.com", "bookings@travel.com"},
		bodies: []string{
			"Your flight is confirmed!\n\nFlight: AA1234\nFrom: NYC to LAX\nTime: 8:00 AM\n\nConfirmation: ABC123\n\nCheck in online: [link]\n\nHave a great trip!\n%s",
			"Thank you for choosing our hotel.\n\nReservation details:\n- Room type: King Suite\n\nLooking forward to hosting you!\n\n%s",
			"Reminder: Check in for your flight tomorrow opens in 24 hours.\n\nCheck in early for best seat selection!\n\n[link]\n\n%s",
		},
		tone:           "professional",
		formality:      "medium",
		responseLength: "none",
	},
}

// ============================================================================
// GENERATION
// ============================================================================

type bucket struct {
	category    string
	subcategory string
	count       int
	tmpl        template
}

// defaultBuckets yields 340 emails in a fixed category mix:
// Work 120, Hockey 60, Personal 50, Finance 30, Shopping 30,
// Organizational 30, Travel 20.
func defaultBuckets() []bucket {
	return []bucket{
		{category: "Work", subcategory: "Project Alpha", count: 40, tmpl: workTemplates["Project Alpha"]},
		{category: "Work", subcategory: "Project Beta", count: 40, tmpl: workTemplates["Project Beta"]},
		{category: "Work", subcategory: "Meetings", count: 40, tmpl: workTemplates["Meetings"]},
		{category: "Hockey", subcategory: "Team A", count: 30, tmpl: hockeyTemplates["Team A"]},
		{category: "Hockey", subcategory: "Team B", count: 30, tmpl: hockeyTemplates["Team B"]},
		{category: "Personal", subcategory: "Family", count: 25, tmpl: personalTemplates["Family"]},
		{category: "Personal", subcategory: "Friends", count: 25, tmpl: personalTemplates["Friends"]},
		{category: "Finance", count: 30, tmpl: flatTemplates["Finance"]},
		{category: "Shopping", count: 30, tmpl: flatTemplates["Shopping"]},
		{category: "Organizational", count: 30, tmpl: flatTemplates["Organizational"]},
		{category: "Travel", count: 20, tmpl: flatTemplates["Travel"]},
	}
}

// Generate produces up to limit labeled emails with a fixed category
// mix, deterministically for a given seed. A limit of 0 or above the
// mix size returns the whole mix.
func Generate(limit int, seed uint64) []Example {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	now := time.Now()

	var examples []Example
	id := 1
	for _, b := range defaultBuckets() {
		for range b.count {
			examples = append(examples, generateOne(id, b, rng, now))
			id++
		}
	}

	rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})

	if limit > 0 && limit < len(examples) {
		examples = examples[:limit]
	}
	return examples
}

func generateOne(id int, b bucket, rng *rand.Rand, now time.Time) Example {
	t := b.tmpl
	subject := fillPlaceholders(pick(rng, t.subjects), rng, now)
	sender := pick(rng, t.senders)
	body := pick(rng, t.bodies)

	if strings.Contains(body, "%s") {
		body = fmt.Sprintf(body, senderName(sender))
	}

	expected := b.category
	requires := b.category == "Organizational"
	if b.subcategory != "" {
		expected = b.category + " > " + b.subcategory
		requires = true
	}

	sent := now.AddDate(0, 0, -rng.IntN(180))

	return Example{
		Inputs: Inputs{
			EmailID:        fmt.Sprintf("email_%04d", id),
			From:           sender,
			Subject:        subject,
			Body:           body,
			Date:           sent.Format("2006-01-02 15:04:05"),
			HasAttachments: hasAttachments(subject, rng),
		},
		Outputs: Outputs{
			Category:         expected,
			Tone:             t.tone,
			Formality:        t.formality,
			ResponseLength:   t.responseLength,
			RequiresResponse: requires,
		},
	}
}

// fillPlaceholders substitutes the quarter, date, order number, and
// destination slots some subjects carry.
func fillPlaceholders(subject string, rng *rand.Rand, now time.Time) string {
	switch {
	case strings.Contains(subject, "%d"):
		if strings.HasPrefix(subject, "Q") {
			return fmt.Sprintf(subject, 1+rng.IntN(4))
		}
		return fmt.Sprintf(subject, 1000+rng.IntN(9000))
	case strings.Contains(subject, "%s"):
		if strings.Contains(subject, "Flight") || strings.Contains(subject, "itinerary") {
			return fmt.Sprintf(subject, pick(rng, []string{"NYC", "LAX", "SFO", "ORD"}))
		}
		if strings.Contains(subject, "Investment") {
			return fmt.Sprintf(subject, pick(rng, []string{"January", "February", "March"}))
		}
		due := now.AddDate(0, 0, 1+rng.IntN(30))
		return fmt.Sprintf(subject, due.Format("January 2"))
	default:
		return strings.ReplaceAll(subject, "%%", "%")
	}
}

func hasAttachments(subject string, rng *rand.Rand) bool {
	lower := strings.ToLower(subject)
	switch {
	case strings.Contains(lower, "statement"), strings.Contains(lower, "itinerary"):
		return true
	case strings.Contains(lower, "report"), strings.Contains(lower, "photo"):
		return rng.IntN(2) == 0
	default:
		return false
	}
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.IntN(len(options))]
}

// senderName turns "john.smith@company.com" into "John Smith".
func senderName(sender string) string {
	local, _, _ := strings.Cut(sender, "@")
	parts := strings.Split(local, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

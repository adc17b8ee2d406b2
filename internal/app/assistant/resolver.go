package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/YelzhanWeb/mamantilie/internal/domain"
)

var (
	statusWords    = []string{"status", "track", "where is my", "hali ya agizo"}
	menuWords      = []string{"menu", "menyu"}
	ingredientWord = []string{"ingredients", "viungo"}
	recommendWords = []string{"pendekeza", "shauri", "recommend"}
	deliveryWords  = []string{"delivery", "muda", "itachukua muda gani"}
	greetingWords  = []string{"hello", "hi", "hey", "habari", "jambo", "mambo"}
	helpWords      = []string{"help", "msaada", "saidia"}
	thanksWords    = []string{"thank", "thanks", "asante", "shukrani"}
)

var (
	greetings = []string{
		"Habari! Mimi ni msaidizi wako wa chakula. Nikusaidie nini?",
		"Hujambo! Tuko tayari kukuhudumia.",
	}
	thanks = []string{
		"Karibu! Furahia chakula chako!",
		"Nimefurahi kukusaidia!",
		"Ni raha yangu! Niulize tena kama unahitaji msaada zaidi.",
	}
)

const (
	helpReply = "Naweza:\n- Kuchukua maagizo\n- Kufafanua vyakula\n- Kutoa maelezo ya viungo\n" +
		"- Kufuatilia agizo lako\n- Kujibu maswali yoyote kuhusu chakula"
	fallbackReply = "Niko hapa kukusaidia kuhusu vyakula vyote! Unaweza kuuliza kuhusu:\n" +
		"- Vyakula kwenye menyu\n- Viungo\n- Hali ya agizo\n- Uwasilishaji\n- Mapendekezo"
	deliveryReply     = "Uwasilishaji huchukua dakika 30-45. Tunatengeneza chakula chako mara baada ya kuagizwa!"
	unknownDishReply  = "Samahani, sielewi chakula gani unahusu. Tafadhali niambie jina kamili."
	orderNotFound     = "Sikupata agizo lako. Tafadhali hakikisha jina au namba ya agizo."
	emptyMenuReply    = "Samahani, menyu haina vyakula kwa sasa."
	menuClosingPrompt = "\nUngependa kuagiza nini?"
)

// Resolver answers canned questions about the menu and existing orders.
// It never changes orders.
type Resolver struct {
	catalog *domain.Catalog
}

func New(catalog *domain.Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Answer matches query against the known intents in priority order:
// order status, menu, ingredients, recommendation, delivery time, greeting, help, thanks.
func (r *Resolver) Answer(query string, orders []*domain.Order) string {
	text := strings.ToLower(strings.TrimSpace(query))

	switch {
	case containsAny(text, statusWords):
		return r.orderStatus(text, orders)
	case containsAny(text, menuWords):
		return r.menu()
	case containsAny(text, ingredientWord):
		return r.ingredients(text)
	case containsAny(text, recommendWords):
		return r.recommend()
	case containsAny(text, deliveryWords):
		return deliveryReply
	case hasWord(text, greetingWords):
		return pick(greetings, text)
	case containsAny(text, helpWords):
		return helpReply
	case containsAny(text, thanksWords):
		return pick(thanks, text)
	default:
		return fallbackReply
	}
}

// orderStatus reports the first order whose customer name or id occurs in text.
func (r *Resolver) orderStatus(text string, orders []*domain.Order) string {
	for _, o := range orders {
		name := strings.ToLower(strings.TrimSpace(o.CustomerName))
		id := strings.ToLower(o.ID)
		if (name != "" && strings.Contains(text, name)) || (id != "" && strings.Contains(text, id)) {
			return fmt.Sprintf("Agizo %s:\n%s (x%d)\nJumla: %s\nHali: %s\nImeagizwa: %s",
				o.ID, o.FoodType, o.Quantity, FormatAmount(o.Price), o.DeliveryStatus, o.Timestamp)
		}
	}
	return orderNotFound
}

func (r *Resolver) menu() string {
	items := r.catalog.Items()
	if len(items) == 0 {
		return emptyMenuReply
	}

	var b strings.Builder
	b.WriteString("Menyu yetu:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s: %s\n   %s\n", item.Name, FormatAmount(item.Price), item.Description)
	}
	b.WriteString(menuClosingPrompt)
	return b.String()
}

func (r *Resolver) ingredients(text string) string {
	var b strings.Builder
	for _, item := range r.catalog.Items() {
		if !strings.Contains(text, strings.ToLower(item.Name)) {
			continue
		}
		fmt.Fprintf(&b, "%s:\n- Viungo: %s\n- Bei: %s\n\n",
			item.Name, strings.Join(item.Ingredients, ", "), FormatAmount(item.Price))
	}
	if b.Len() == 0 {
		return unknownDishReply
	}
	return strings.TrimRight(b.String(), "\n")
}

// recommend suggests the most expensive dish, the earliest on the menu among equals.
func (r *Resolver) recommend() string {
	items := r.catalog.Items()
	if len(items) == 0 {
		return emptyMenuReply
	}
	best := items[0]
	for _, item := range items[1:] {
		if item.Price > best.Price {
			best = item
		}
	}
	return fmt.Sprintf("Napendekeza %s - ni maarufu sana! %s", best.Name, best.Description)
}

// FormatAmount renders whole shillings as "TZS 12,500".
func FormatAmount(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return "TZS " + sign + b.String()
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// hasWord matches whole words only; short greetings like "hi" would otherwise match "chai".
func hasWord(text string, words []string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

// pick chooses a reply from the query itself so the same question gets the same answer.
func pick(replies []string, text string) string {
	return replies[len(text)%len(replies)]
}

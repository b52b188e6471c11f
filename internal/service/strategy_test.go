package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"pandey.app/outreach/common/llm"
	"pandey.app/outreach/internal/model"
	"pandey.app/outreach/internal/service"
	"pandey.app/outreach/internal/strategy"
)

const fullStrategyJSON = `{"prospectSummary":"A","painPointHypothesis":"B","positioningStrategy":"C","toneSuggestions":"D","firstMessageStructure":"E"}`

var _ = Describe("StrategyService", func() {
	var (
		ctx      context.Context
		client   *mockLLMClient
		c        *mapCache
		svc      service.StrategyService
		prospect model.Prospect
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockLLMClient{}
		c = newMapCache()
		svc = service.NewStrategyService(client, c)
		prospect = model.Prospect{Name: "  Dana  ", Title: "VP Sales", Company: "Acme", Links: []string{" ", "https://acme.example "}}
	})

	Describe("Generate", func() {
		It("returns the parsed strategy and caches it", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: "```json\n" + fullStrategyJSON + "\n```", Model: "test/model"}, nil
			}

			result, err := svc.Generate(ctx, prospect)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Source).To(Equal(strategy.SourceJSON))
			Expect(result.Strategy.ProspectSummary).To(Equal("A"))
			Expect(result.Strategy.FirstMessageStructure).To(Equal("E"))
			Expect(result.Degraded()).To(BeFalse())
			Expect(c.sets).To(Equal(1))
		})

		It("sends the normalized prospect with the mentor system prompt", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: fullStrategyJSON}, nil
			}

			_, err := svc.Generate(ctx, prospect)

			Expect(err).NotTo(HaveOccurred())
			Expect(client.lastReq.SystemPrompt).To(Equal(strategy.SystemPrompt))
			Expect(client.lastReq.UserPrompt).To(ContainSubstring("- Name: Dana\n"))
			Expect(client.lastReq.UserPrompt).To(ContainSubstring("- Links: https://acme.example\n"))
			Expect(client.lastReq.Schema).NotTo(BeNil())
		})

		It("serves repeated requests from the cache", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: fullStrategyJSON}, nil
			}

			_, err := svc.Generate(ctx, prospect)
			Expect(err).NotTo(HaveOccurred())

			result, err := svc.Generate(ctx, prospect)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Source).To(Equal(strategy.SourceCache))
			Expect(result.Strategy.PositioningStrategy).To(Equal("C"))
			Expect(client.calls).To(Equal(1))
		})

		It("returns placeholders for an unusable response without caching it", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: "I am not able to help with that."}, nil
			}

			result, err := svc.Generate(ctx, prospect)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Degraded()).To(BeTrue())
			Expect(result.Recovered).To(BeZero())
			Expect(result.Strategy.ProspectSummary).To(Equal("Unable to generate summary."))
			Expect(c.sets).To(BeZero())
		})

		It("propagates generation failures", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return nil, llm.ErrTimeout
			}

			_, err := svc.Generate(ctx, prospect)

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, llm.ErrTimeout)).To(BeTrue())
			Expect(errors.Is(err, service.ErrGeneration)).To(BeTrue())
		})

		It("does not cache a reply cut off at the token limit", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{
					Content:      `{"prospectSummary":"A","painPointHypothesis":"B","positioningStrategy":"C","toneSuggestions":"D","firstMessageStructure":"Opener: grab att`,
					FinishReason: "length",
				}, nil
			}

			result, err := svc.Generate(ctx, prospect)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Source).To(Equal(strategy.SourceRepaired))
			Expect(result.Strategy.ProspectSummary).To(Equal("A"))
			Expect(c.sets).To(BeZero())

			_, err = svc.Generate(ctx, prospect)
			Expect(err).NotTo(HaveOccurred())
			Expect(client.calls).To(Equal(2))
		})

		It("does not cache a complete JSON reply that stopped at the token limit", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: fullStrategyJSON, FinishReason: "length"}, nil
			}

			result, err := svc.Generate(ctx, prospect)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Source).To(Equal(strategy.SourceJSON))
			Expect(c.sets).To(BeZero())
		})

		It("does not cache a reply that only parsed after repair", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{
					Content:      `{"prospectSummary":"A","painPointHypothesis":"B","positioningStrategy":"C","toneSuggestions":"D","firstMessageStructure":"E",}`,
					FinishReason: "stop",
				}, nil
			}

			result, err := svc.Generate(ctx, prospect)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Source).To(Equal(strategy.SourceRepaired))
			Expect(result.Degraded()).To(BeFalse())
			Expect(c.sets).To(BeZero())
		})

		DescribeTable("rejects a prospect missing a required attribute",
			func(p model.Prospect) {
				_, err := svc.Generate(ctx, p)

				Expect(errors.Is(err, service.ErrInvalidProspect)).To(BeTrue())
				Expect(client.calls).To(BeZero())
			},
			Entry("blank name", model.Prospect{Name: "   ", Company: "Acme"}),
			Entry("missing company", model.Prospect{Name: "Dana"}),
			Entry("blank company", model.Prospect{Name: "Dana", Company: "  "}),
		)

		It("works without a cache", func() {
			client.generateFn = func(_ context.Context, _ llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: fullStrategyJSON}, nil
			}
			svc = service.NewStrategyService(client, nil)

			result, err := svc.Generate(ctx, prospect)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Source).To(Equal(strategy.SourceJSON))
		})
	})
})

var _ = Describe("NormalizeProspect", func() {
	It("trims every attribute and drops blank links", func() {
		got := service.NormalizeProspect(model.Prospect{
			Name:              " Dana ",
			Title:             "\tVP ",
			Company:           " Acme",
			Industry:          "  ",
			Notes:             " n ",
			KnownPainPoints:   " k ",
			PriorInteractions: " p ",
			Links:             []string{"", " a ", "  "},
		})

		Expect(got).To(Equal(model.Prospect{
			Name:              "Dana",
			Title:             "VP",
			Company:           "Acme",
			Industry:          "",
			Notes:             "n",
			KnownPainPoints:   "k",
			PriorInteractions: "p",
			Links:             []string{"a"},
		}))
	})
})

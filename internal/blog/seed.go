package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"motorlane/pkg/platform/sentinel"
)

// Seed loads the launch editorial content when the store is empty. Dates
// are staggered one day apart so the listing order is stable.
func Seed(ctx context.Context, store Store) error {
	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if n > 0 {
		return nil
	}

	base := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	for i, p := range seedPosts() {
		p.ID = uuid.NewString()
		p.Date = base.AddDate(0, 0, -i)
		if err := store.Create(ctx, p); err != nil && !errors.Is(err, sentinel.ErrConflict) {
			return fmt.Errorf("seed post %q: %w", p.Title, err)
		}
	}
	return nil
}

func seedPosts() []*Post {
	return []*Post{
		{
			Title:       "Como comprar carro usado com segurança em 2026",
			Excerpt:     "Dicas essenciais para evitar fraudes e garantir o melhor negócio no mercado de usados.",
			Content:     "Comprar um carro usado pode ser um desafio, mas em 2026 a tecnologia está do nosso lado. A primeira regra é verificar o histórico de manutenção digital. No Facilitador Car, todos os nossos stands parceiros fornecem relatórios transparentes. Verifique sempre o estado das baterias em veículos eletrificados e não hesite em solicitar um test-drive em diferentes condições de estrada.",
			Author:      "Equipa Facilitador Car",
			Image:       "https://images.unsplash.com/photo-1560179707-f14e90ef3623?auto=format&fit=crop&q=80&w=800",
			ReadingTime: "5 min",
		},
		{
			Title:       "Carros Elétricos vs Híbridos: Qual a melhor escolha em Portugal?",
			Excerpt:     "Análise detalhada sobre custos de carregamento, autonomia e benefícios fiscais para 2026.",
			Content:     "A transição energética está a acelerar. Para quem faz mais de 50km diários em ambiente urbano, o elétrico puro (BEV) é imbatível no custo por quilómetro. No entanto, para quem viaja frequentemente pelo interior do país, os Híbridos Plug-in ainda oferecem a paz de espírito necessária. Em 2026, os novos incentivos do Fundo Ambiental tornam a troca ainda mais atrativa. Analisamos os modelos mais fiáveis de cada categoria neste guia exclusivo.",
			Author:      "Equipa Editorial",
			Image:       "https://images.unsplash.com/photo-1593941707882-a5bba14938c7?auto=format&fit=crop&q=80&w=800",
			ReadingTime: "7 min",
		},
		{
			Title:       "O Mercado Automóvel em 2026: Confiança Digital",
			Excerpt:     "Como os stands verificados estão a mudar o mercado.",
			Content:     "A confiança tornou-se a moeda principal do mercado automóvel. Os stands verificados, com histórico auditado e avaliações reais, estão a redefinir a forma como os portugueses compram carro.",
			Author:      "Carlos Mendes, CEO",
			Image:       "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?auto=format&fit=crop&q=80&w=800",
			ReadingTime: "4 min",
		},
		{
			Title:       "Financiamento Automóvel: Taxas e Melhores Condições para 2026",
			Excerpt:     "Entenda como funcionam os novos juros e vantagens do leasing.",
			Content:     "Em 2026, o mercado de crédito está mais competitivo. Comparar TAEG entre bancos e financeiras de marca pode significar uma poupança de centenas de euros por ano, e o leasing volta a ganhar terreno nos eletrificados.",
			Author:      "Ricardo Costa",
			Image:       "https://images.unsplash.com/photo-1554224155-6726b3ff858f?auto=format&fit=crop&q=80&w=800",
			ReadingTime: "6 min",
		},
		{
			Title:       "Checklist de Manutenção: Como manter o valor de revenda",
			Excerpt:     "Pequenos cuidados diários que valem dinheiro.",
			Content:     "A desvalorização de um veículo pode ser travada com manutenção preventiva documentada. Revisões dentro do plano, pneus em bom estado e um interior cuidado fazem diferença real no valor de retoma.",
			Author:      "Oficina Facilitador",
			Image:       "https://images.unsplash.com/photo-1486262715619-67b85e0b08d3?auto=format&fit=crop&q=80&w=800",
			ReadingTime: "5 min",
		},
		{
			Title:       "Importar Carros em 2026: Guia Completo de Custos e ISV",
			Excerpt:     "Vale a pena buscar o seu próximo veículo na Alemanha?",
			Content:     "A importação continua a ser uma via popular para encontrar versões bem equipadas a bom preço. Entre ISV, transporte, inspeção e legalização, as contas têm de ser feitas com rigor antes de avançar.",
			Author:      "Marta Rodrigues",
			Image:       "https://images.unsplash.com/photo-1542362567-b055002b91f4?auto=format&fit=crop&q=80&w=800",
			ReadingTime: "8 min",
		},
		{
			Title:       "Marcas que menos desvalorizam em 2026: Onde investir?",
			Excerpt:     "Descubra quais modelos melhor retêm o valor em Portugal.",
			Content:     "Comprar um carro é um investimento em mobilidade, mas nem todas as marcas retêm valor da mesma forma. Analisamos os dados de retoma dos últimos três anos para identificar as apostas mais seguras.",
			Author:      "Análise de Mercado",
			Image:       "https://images.unsplash.com/photo-1494976388531-d1058494cdd8?auto=format&fit=crop&q=80&w=800",
			ReadingTime: "6 min",
		},
	}
}

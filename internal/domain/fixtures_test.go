package domain

// catalogFixture returns 5 videos and 3 books.
func catalogFixture() []*SearchResult {
	return []*SearchResult{
		{ID: "v1", Type: ResourceTypeVideo, Title: "Gestão de projetos na prática", Author: "Ana Souza", Subject: "Administração", Year: 2021, Duration: "12:30", Language: "Português", DocumentType: "Aula"},
		{ID: "v2", Type: ResourceTypeVideo, Title: "Introdução à gestão pública", Author: "Carlos Lima", Subject: "Administração Pública", Year: 2023, Duration: "45:00", Language: "Português", DocumentType: "Palestra"},
		{ID: "v3", Type: ResourceTypeVideo, Title: "Python para iniciantes", Author: "Ana Souza", Subject: "Programação", Year: 2022, Duration: "8:15", Language: "Português", DocumentType: "Aula"},
		{ID: "v4", Type: ResourceTypeVideo, Title: "Data Science Basics", Author: "John Smith", Subject: "Data Science", Year: 2020, Duration: "1:05:00", Language: "English", DocumentType: "Lecture"},
		{ID: "v5", Type: ResourceTypeVideo, Title: "Orçamento e finanças", Author: "Marília Gestão", Subject: "Finanças", Year: 2019, Duration: "25:00", Language: "Português", DocumentType: "Aula"},
		{ID: "b1", Type: ResourceTypeTitle, Title: "Gestão estratégica", Author: "José Álvares", Subject: "Administração", Year: 2018, Pages: 320, Language: "Português", DocumentType: "Livro"},
		{ID: "b2", Type: ResourceTypeTitle, Title: "Manual de gestão ambiental", Author: "Beatriz Costa", Subject: "Meio Ambiente", Year: 2022, Pages: 210, Language: "Português", DocumentType: "Livro"},
		{ID: "b3", Type: ResourceTypeTitle, Title: "Clean Architecture", Author: "Robert Martin", Subject: "Programação", Year: 2017, Pages: 432, Language: "English", DocumentType: "Artigo", Description: "Notes on software gestao"},
	}
}

func ids(results []*SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}
